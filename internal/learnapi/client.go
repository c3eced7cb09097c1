package learnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// ErrUnauthorized is returned (wrapped) for every 401 from the API.
var ErrUnauthorized = errors.New("learnapi: unauthorized")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// TokenSource supplies the bearer token and is told when the API rejects it.
type TokenSource interface {
	Token() string
	Logout(ctx context.Context) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       TokenSource
	log        *logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, auth TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		auth:       auth,
		log:        logger.Default().WithPrefix("learnapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wordsResp struct {
	Words []models.LearningWord `json:"words"`
}

// CollectionLearnWords fetches new words for a collection.
func (c *Client) CollectionLearnWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error) {
	return c.fetchWords(ctx, "/learning/collections/"+url.PathEscape(collectionID)+"/learn", numOfWords)
}

// CollectionReviewWords fetches revision words for a collection.
func (c *Client) CollectionReviewWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error) {
	return c.fetchWords(ctx, "/learning/collections/"+url.PathEscape(collectionID)+"/review", numOfWords)
}

// TopicReviewWords fetches review words for a topic. The API has no
// separate learn endpoint for topics.
func (c *Client) TopicReviewWords(ctx context.Context, topicID string, numOfWords int) ([]models.LearningWord, error) {
	return c.fetchWords(ctx, "/learning/topics/"+url.PathEscape(topicID)+"/review", numOfWords)
}

func (c *Client) fetchWords(ctx context.Context, path string, numOfWords int) ([]models.LearningWord, error) {
	q := url.Values{}
	if numOfWords > 0 {
		q.Set("numOfWords", strconv.Itoa(numOfWords))
	}
	var out wordsResp
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	if out.Words == nil {
		out.Words = []models.LearningWord{}
	}
	return out.Words, nil
}

// WordDetail fetches the dictionary entry for one word.
func (c *Client) WordDetail(ctx context.Context, word string) (*models.WordDetail, error) {
	var out models.WordDetail
	if err := c.do(ctx, http.MethodGet, "/words/"+url.PathEscape(word), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Word == "" {
		out.Word = word
	}
	return &out, nil
}

// SubmitUpdates sends one batch of outcomes, in answer order.
func (c *Client) SubmitUpdates(ctx context.Context, updates []models.WordUpdate) error {
	return c.do(ctx, http.MethodPatch, "/learning", nil, updates, nil)
}

// SignIn exchanges credentials for an access token.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("sign-in response carried no access token")
	}
	return &out, nil
}

// Collections lists the collections visible to the user.
func (c *Client) Collections(ctx context.Context) ([]models.Collection, error) {
	var out []models.Collection
	if err := c.do(ctx, http.MethodGet, "/collections", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("learnapi").WithFields(map[string]any{
		"method": method,
		"path":   path,
	})

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if token := c.auth.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.Debug("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("token rejected, signing out")
		if c.auth != nil {
			if err := c.auth.Logout(ctx); err != nil {
				log.Warn("sign-out after 401 failed: %v", err)
			}
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(raw))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
