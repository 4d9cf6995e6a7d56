package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client Mapbox 地理编码客户端
type Client struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

// NewClient 创建一个新的地理编码客户端
func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// ContextEntry 行政区划上下文条目，ID 形如 "country.xxx"
type ContextEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Feature 一条地理编码结果
type Feature struct {
	Center    [2]float64     `json:"center"` // [lng, lat]
	Text      string         `json:"text"`
	PlaceName string         `json:"place_name"`
	PlaceType []string       `json:"place_type"`
	Context   []ContextEntry `json:"context"`
}

type geocodeResponse struct {
	Features []Feature `json:"features"`
}

// Geocode 正向地理编码，限定 place/region/country 三类结果
func (c *Client) Geocode(ctx context.Context, place string) ([]Feature, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(place))

	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("types", "place,region,country")
	q.Set("limit", "1")

	return c.do(ctx, endpoint+"?"+q.Encode())
}

// ReverseCountry 反向地理编码，仅取坐标所属国家
func (c *Client) ReverseCountry(ctx context.Context, lng, lat float64) ([]Feature, error) {
	endpoint := fmt.Sprintf("%s/%f,%f.json", c.baseURL, lng, lat)

	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("types", "country")
	q.Set("limit", "1")

	return c.do(ctx, endpoint+"?"+q.Encode())
}

func (c *Client) do(ctx context.Context, fullURL string) ([]Feature, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("geocoding api error (status %d): %s", res.StatusCode, string(body))
	}

	var resp geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	return resp.Features, nil
}
