package defs

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Fetch retrieves the serialized definition table from url. One attempt,
// no retries: a failed fetch is handled by the caller (cache fallback or
// fatal precondition).
func Fetch(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch definitions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch definitions: %s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch definitions: read body: %w", err)
	}
	return body, nil
}

// Load returns the definition table, preferring a fresh fetch and falling
// back to the local cache when the network is unavailable. A successful
// fetch refreshes the cache; failure of the cache write is not fatal.
func Load(url, cachePath string) (*Table, error) {
	data, fetchErr := Fetch(url)
	if fetchErr == nil {
		table, err := Parse(data)
		if err != nil {
			return nil, err
		}
		if cachePath != "" {
			if err := cachePut(cachePath, data); err != nil {
				log.Printf("defs: cache write failed: %v", err)
			}
		}
		return table, nil
	}

	if cachePath != "" {
		data, fetchedAt, err := cacheGet(cachePath)
		if err == nil {
			log.Printf("defs: fetch failed (%v), using table cached %s",
				fetchErr, fetchedAt.Format(time.RFC3339))
			return Parse(data)
		}
	}

	return nil, fmt.Errorf("definition table unavailable: %w", fetchErr)
}
