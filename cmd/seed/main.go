// Command seed populates a running instance with matches, simulated
// prediction walkthroughs and settlement awards over HTTP. It is a
// development aid for exercising the full pipeline end to end.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	defaultMatches   = 4
	defaultUsers     = 20
	defaultAwardMax  = 3
	defaultTimeout   = 10 * time.Second
	defaultRunBudget = 5 * time.Minute
)

var matchNames = []string{
	"Lions vs Tigers",
	"Bears vs Wolves",
	"Hawks vs Eagles",
	"Sharks vs Dolphins",
	"Foxes vs Owls",
	"Bulls vs Rams",
}

var scores = []string{"1-0", "2-1", "0-0", "3-2", "1-1", "2-0"}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func (c *client) event(ctx context.Context, userID int64, action, text string) error {
	return c.post(ctx, "/events", map[string]any{
		"user_id": userID,
		"action":  action,
		"text":    text,
	}, nil)
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8090", "Base URL of the service")
		matches = flag.Int("matches", defaultMatches, "Number of matches to create")
		users   = flag.Int("users", defaultUsers, "Number of simulated users")
		award   = flag.Int("award", defaultAwardMax, "Max points awarded per user")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunBudget)
	defer cancel()

	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: *timeout}}

	if err := run(ctx, c, *matches, *users, *award); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client, matches, users, awardMax int) error {
	for i := 0; i < matches; i++ {
		name := matchNames[i%len(matchNames)]
		if i >= len(matchNames) {
			name = fmt.Sprintf("%s (round %d)", name, i/len(matchNames)+1)
		}
		if err := c.post(ctx, "/matches", map[string]string{"name": name}, nil); err != nil {
			return err
		}
	}
	fmt.Printf("created %d matches\n", matches)

	for u := 1; u <= users; u++ {
		userID := int64(u)
		if err := c.event(ctx, userID, "start", ""); err != nil {
			return err
		}
		if err := c.event(ctx, userID, "text", fmt.Sprintf("Player %d", u)); err != nil {
			return err
		}
		if err := c.event(ctx, userID, "view_matches", ""); err != nil {
			return err
		}
		for m := 0; m < matches; m++ {
			if err := c.event(ctx, userID, "text", scores[(u+m)%len(scores)]); err != nil {
				return err
			}
		}
	}
	fmt.Printf("seeded %d users with predictions\n", users)

	for u := 1; u <= users; u++ {
		delta := u%awardMax + 1
		err := c.post(ctx, "/awards", map[string]any{
			"event_id": uuid.NewString(),
			"user_id":  int64(u),
			"delta":    delta,
		}, nil)
		if err != nil {
			return err
		}
	}
	fmt.Printf("submitted awards for %d users\n", users)
	return nil
}
