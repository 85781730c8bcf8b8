package breeds

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ddliu/go-httpclient"
	"github.com/schmich/dogdisk/failure"
)

const DefaultEndpoint = "https://dog.ceo/api"

// Response is the envelope of every Dog CEO API reply. Message is either a
// single string or a list of strings depending on the route.
type Response struct {
	Message json.RawMessage `json:"message"`
	Status  string          `json:"status"`
	Code    int             `json:"code,omitempty"`
}

type Client struct {
	endpoint string
	http     *httpclient.HttpClient
}

func NewClient(endpoint string, timeout int) *Client {
	transport := httpclient.NewHttpClient()
	if timeout > 0 {
		transport.Defaults(httpclient.Map{httpclient.OPT_TIMEOUT: timeout})
	}

	return &Client{endpoint: strings.TrimRight(endpoint, "/"), http: transport}
}

func (client *Client) SubBreeds(breed string) ([]string, error) {
	const op = "list sub-breeds"

	response, err := client.get(op, breed, "list")
	if err != nil {
		return []string{}, err
	}

	var subBreeds []string
	if err := json.Unmarshal(response.Message, &subBreeds); err != nil || subBreeds == nil {
		return []string{}, nil
	}

	return subBreeds, nil
}

// RandomImage returns the URL of a random image of breed, narrowed to
// subBreed when it is not empty.
func (client *Client) RandomImage(breed, subBreed string) (string, error) {
	const op = "random image"

	segments := []string{breed}
	if subBreed != "" {
		segments = append(segments, subBreed)
	}

	response, err := client.get(op, append(segments, "images", "random")...)
	if err != nil {
		return "", err
	}

	var imageURL string
	if err := json.Unmarshal(response.Message, &imageURL); err != nil {
		return "", nil
	}

	return imageURL, nil
}

func (client *Client) get(op string, segments ...string) (*Response, error) {
	if segments[0] == "" {
		return nil, failure.NewProtocol(op, 0, "", "breed name is empty")
	}

	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}

	address := client.endpoint + "/breed/" + strings.Join(escaped, "/")
	res, err := client.http.Do(http.MethodGet, address, map[string]string{"Accept": "application/json"}, nil)
	if err != nil {
		return nil, failure.NewTransport(op, err)
	}

	body, err := res.ReadAll()
	if err != nil {
		return nil, failure.NewTransport(op, err)
	}

	var response Response
	decodeErr := json.Unmarshal(body, &response)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var message string
		if decodeErr == nil && response.Status == "error" && json.Unmarshal(response.Message, &message) == nil {
			return nil, failure.NewProtocol(op, res.StatusCode, "", message)
		}

		return nil, failure.NewProtocol(op, res.StatusCode, "", "")
	}

	if decodeErr != nil {
		return nil, &failure.Error{Kind: failure.Protocol, Op: op, Status: res.StatusCode, Err: decodeErr}
	}

	return &response, nil
}
