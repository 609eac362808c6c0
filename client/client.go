// Package client is the consumer-side half of postboard: an HTTP
// transport speaking the server's wire contract, an authentication state
// holder, and a reactive post store that caches the current page and
// fans updates out to any number of subscribers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"postboard/internal/models"
)

// Attachment is an image rider on a create or update request.
type Attachment struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// APIError is a non-2xx response surfaced to the caller unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client speaks the post wire contract. The token source, when set,
// stamps every request with the current bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *AuthState
}

func NewClient(baseURL string, httpClient *http.Client, tokens *AuthState) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, tokens: tokens}
}

func (c *Client) CreatePost(ctx context.Context, title, content string, att *Attachment) (*models.Post, error) {
	var post models.Post
	err := c.sendPost(ctx, http.MethodPost, c.baseURL+"/api/posts", title, content, att, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID, title, content string, att *Attachment) (*models.Post, error) {
	var post models.Post
	err := c.sendPost(ctx, http.MethodPut, c.baseURL+"/api/posts/"+url.PathEscape(postID), title, content, att, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/posts/"+url.PathEscape(postID), nil)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := c.do(req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts fetches one page, or the full collection when either window
// parameter is non-positive.
func (c *Client) ListPosts(ctx context.Context, pageSize, pageIndex int) (*models.PostPage, error) {
	u := c.baseURL + "/api/posts"
	if pageSize > 0 && pageIndex > 0 {
		u += "?pageSize=" + strconv.Itoa(pageSize) + "&pageIndex=" + strconv.Itoa(pageIndex)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var page models.PostPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/posts/"+url.PathEscape(postID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// sendPost encodes a create/update body: multipart form when an image
// rides along, plain JSON otherwise.
func (c *Client) sendPost(ctx context.Context, method, u, title, content string, att *Attachment, out interface{}) error {
	var body bytes.Buffer
	var contentType string

	if att != nil {
		writer := multipart.NewWriter(&body)
		if err := writer.WriteField("title", title); err != nil {
			return err
		}
		if err := writer.WriteField("content", content); err != nil {
			return err
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename=%q`, att.Name))
		header.Set("Content-Type", att.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, att.Reader); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		contentType = writer.FormDataContentType()
	} else {
		if err := json.NewEncoder(&body).Encode(map[string]string{
			"title":   title,
			"content": content,
		}); err != nil {
			return err
		}
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
