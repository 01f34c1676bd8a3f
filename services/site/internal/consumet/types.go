// Package consumet talks to the Consumet streaming aggregator's AniList
// provider. It returns raw responses; judging them is the resolver's job.
package consumet

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Episode struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`

	// Synthesized marks placeholders built from the AniList episode count.
	Synthesized bool `json:"-"`
}

// DisplayTitle is the episode title, or "Episode N" when there is none.
func (e Episode) DisplayTitle() string {
	if strings.TrimSpace(e.Title) != "" {
		return e.Title
	}
	return "Episode " + strconv.Itoa(e.Number)
}

type Source struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	IsM3U8  bool   `json:"isM3U8"`
}

// InfoResponse is the subset of /info/{id} the site reads. Episodes is a
// pointer so a missing field can be told apart from an empty array.
type InfoResponse struct {
	ID       string     `json:"id"`
	Episodes *[]Episode `json:"episodes"`
}

type WatchResponse struct {
	Headers map[string]string `json:"headers,omitempty"`
	Sources []Source          `json:"sources"`
}

// Response is an upstream answer in its raw form.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the content type says JSON.
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Snippet is the first n bytes of the body, for logs.
func (r *Response) Snippet(n int) string {
	if len(r.Body) <= n {
		return string(r.Body)
	}
	return string(r.Body[:n])
}

func (r *Response) DecodeInfo() (*InfoResponse, error) {
	var out InfoResponse
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Response) DecodeWatch() (*WatchResponse, error) {
	var out WatchResponse
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
