package jenkins_http

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davarch/jenkins-watcher/internal/domain"
)

// Client fetches the latest completed build per job from the Jenkins
// JSON API in a single request.
type Client struct {
	baseUrl string
	user    string
	token   string
	hc      *http.Client
}

func New(baseUrl, user, token string, timeout time.Duration) *Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseUrl: trimSlash(baseUrl),
		user:    user,
		token:   token,
		hc:      &http.Client{Transport: tr, Timeout: timeout},
	}
}

const buildsTree = "jobs[name,lastCompletedBuild[number,result,timestamp,fullDisplayName,url]]"

type buildDTO struct {
	Number          int    `json:"number"`
	Result          string `json:"result"`
	Timestamp       int64  `json:"timestamp"`
	FullDisplayName string `json:"fullDisplayName"`
	URL             string `json:"url"`
}

type jobDTO struct {
	Name               string    `json:"name"`
	LastCompletedBuild *buildDTO `json:"lastCompletedBuild"`
}

type feedDTO struct {
	Jobs []jobDTO `json:"jobs"`
}

// LatestBuilds returns the current snapshot. Any HTTP or decode failure
// rejects the snapshot as a whole; nothing partial is returned.
func (c *Client) LatestBuilds(ctx context.Context) (map[string]domain.Build, error) {
	var out map[string]domain.Build

	op := func() error {
		feedURL := fmt.Sprintf("%s/api/json?tree=%s", c.baseUrl, buildsTree)

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if c.user != "" {
			req.SetBasicAuth(c.user, c.token)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}

		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("jenkins %s", resp.Status)
		}

		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("jenkins %s", resp.Status))
		}

		var feed feedDTO
		if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
			return backoff.Permanent(fmt.Errorf("decode jenkins feed: %w", err))
		}

		snapshot := make(map[string]domain.Build, len(feed.Jobs))
		for _, j := range feed.Jobs {
			if j.Name == "" || j.LastCompletedBuild == nil {
				continue
			}
			b := j.LastCompletedBuild
			snapshot[j.Name] = domain.Build{
				Number:  b.Number,
				Status:  mapResult(b.Result),
				Time:    time.UnixMilli(b.Timestamp),
				Message: message(j.Name, b),
				URL:     b.URL,
			}
		}
		out = snapshot

		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 300 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func message(job string, b *buildDTO) string {
	if b.FullDisplayName != "" {
		return fmt.Sprintf("%s: %s", b.FullDisplayName, statusLabel(b.Result))
	}
	return fmt.Sprintf("%s #%d: %s", job, b.Number, statusLabel(b.Result))
}

func statusLabel(result string) string {
	if result == "" {
		return "UNKNOWN"
	}
	return result
}

func mapResult(result string) domain.BuildStatus {
	switch result {
	case "SUCCESS":
		return domain.StatusSuccess
	case "STABLE":
		return domain.StatusStable
	case "FAILURE":
		return domain.StatusFailure
	case "UNSTABLE":
		return domain.StatusUnstable
	case "ABORTED":
		return domain.StatusAborted
	default:
		return domain.StatusUnknown
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
