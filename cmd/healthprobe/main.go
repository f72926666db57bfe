// healthprobe is the container health check binary: one GET against
// the app's own health endpoint, exit 0 on 200, exit 1 otherwise.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}
	endpoint := os.Getenv("HEALTH_ENDPOINT")
	if endpoint == "" {
		endpoint = "/health"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://localhost:" + port + endpoint)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Health check error:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "❌ Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("✅ Health check passed")
}
