package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// YTClone talks to the external video hosting platform. The base URL is
// stored per workspace, so every call takes it explicitly
type YTClone struct {
	HTTP *http.Client
}

func NewYTClone() *YTClone {
	// No overall timeout: publish streams whole video files and takes as
	// long as the transfer takes
	return &YTClone{HTTP: &http.Client{}}
}

type Channel struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Handle            string `json:"handle,omitempty"`
	ChannelLinkSecret string `json:"channelLinkSecret,omitempty"`
}

// UploadRequest describes one publish. Exactly one of Token or
// ChannelID+Secret decides the endpoint; the secret path wins when both
// are available
type UploadRequest struct {
	Token       string
	ChannelID   string
	Secret      string
	Title       string
	Description string
	FileName    string
	Body        io.Reader
}

var handleRe = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeHandle turns a display name into a platform handle: lowercase,
// hyphenated, at most 20 characters. Names with no usable characters get
// a timestamp-based fallback
func SanitizeHandle(name string) string {
	h := handleRe.ReplaceAllString(strings.ToLower(name), "-")
	h = strings.Trim(h, "-")
	if len(h) > 20 {
		h = h[:20]
	}
	if h == "" {
		return fmt.Sprintf("channel-%d", time.Now().UnixMilli())
	}
	return h
}

// MyChannels lists the channels owned by the token's user
func (y *YTClone) MyChannels(ctx context.Context, baseURL, token string) ([]Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/channels/my-channels", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var channels []Channel
	if err := y.doJSON(req, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// CreateChannel creates a channel named after the workspace
func (y *YTClone) CreateChannel(ctx context.Context, baseURL, token, name, description string) (*Channel, error) {
	payload, err := json.Marshal(map[string]string{
		"name":        name,
		"description": description,
		"handle":      SanitizeHandle(name),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/channels", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var raw json.RawMessage
	if err := y.doJSON(req, &raw); err != nil {
		return nil, err
	}

	// The platform wraps the channel on create but not on fetch
	var wrapped struct {
		Channel *Channel `json:"channel"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Channel != nil {
		return wrapped.Channel, nil
	}

	var ch Channel
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// RegenerateSecret fetches a fresh long-lived channel secret so later
// publishes don't need a live token
func (y *YTClone) RegenerateSecret(ctx context.Context, baseURL, token, channelID string) (string, error) {
	url := fmt.Sprintf("%s/api/channels/%s/regenerate-secret", baseURL, channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out struct {
		ChannelLinkSecret string `json:"channelLinkSecret"`
		Secret            string `json:"secret"`
	}
	if err := y.doJSON(req, &out); err != nil {
		return "", err
	}
	if out.ChannelLinkSecret != "" {
		return out.ChannelLinkSecret, nil
	}
	return out.Secret, nil
}

// Download opens the stored object URL for streaming into an upload
func (y *YTClone) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := y.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching source video returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Upload streams the video into the platform's multipart upload endpoint.
// The request body is piped, the file is never buffered in memory
func (y *YTClone) Upload(ctx context.Context, baseURL string, up UploadRequest) (json.RawMessage, error) {
	bySecret := up.Secret != "" && up.ChannelID != ""

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			part, err := mw.CreateFormFile("video", up.FileName)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, up.Body); err != nil {
				return err
			}
			if err := mw.WriteField("title", up.Title); err != nil {
				return err
			}
			if err := mw.WriteField("description", up.Description); err != nil {
				return err
			}
			if bySecret {
				if err := mw.WriteField("channelId", up.ChannelID); err != nil {
					return err
				}
				if err := mw.WriteField("secret", up.Secret); err != nil {
					return err
				}
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	url := baseURL + "/api/videos/upload"
	if bySecret {
		url = baseURL + "/api/videos/upload-by-secret"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if !bySecret {
		req.Header.Set("Authorization", "Bearer "+up.Token)
	}

	var raw json.RawMessage
	if err := y.doJSON(req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// doJSON runs the request and decodes a 2xx response into out. Non-2xx
// responses are turned into errors carrying the remote message
func (y *YTClone) doJSON(req *http.Request, out any) error {
	resp, err := y.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("platform returned status %d: %s", resp.StatusCode, remoteMessage(body))
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func remoteMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}
