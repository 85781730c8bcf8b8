package storage

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ddliu/go-httpclient"
	"github.com/schmich/dogdisk/failure"
)

const DefaultDiskEndpoint = "https://cloud-api.yandex.net/v1/disk"

const existentDirectoryCode = "DiskPathPointsToExistentDirectoryError"

type DiskError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

type DiskResource struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Embedded *struct {
		Items []Item `json:"items"`
	} `json:"_embedded,omitempty"`
}

type diskClient struct {
	endpoint string
	headers  map[string]string
	http     *httpclient.HttpClient
}

func NewDiskClient(endpoint, token string, timeout int) Client {
	return &diskClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		headers: map[string]string{
			"Content-Type":  "application/json",
			"Accept":        "application/json",
			"Authorization": "OAuth " + token,
		},
		http: newTransport(timeout),
	}
}

func (client *diskClient) CreateFolder(path string) error {
	params := url.Values{"path": {diskPath(path)}}
	_, err := client.do("create folder", http.MethodPut, "/resources", params)
	return err
}

func (client *diskClient) UploadFromURL(path, sourceURL, name string) error {
	params := url.Values{
		"path":      {diskPath(path, name)},
		"url":       {sourceURL},
		"overwrite": {"true"},
	}

	_, err := client.do("upload "+name, http.MethodPost, "/resources/upload", params)
	return err
}

func (client *diskClient) ListItems(path string) ([]Item, error) {
	params := url.Values{"path": {diskPath(path)}}
	body, err := client.do("list items", http.MethodGet, "/resources", params)
	if err != nil {
		return []Item{}, err
	}

	var resource DiskResource
	if err := json.Unmarshal(body, &resource); err != nil {
		return []Item{}, &failure.Error{Kind: failure.Protocol, Op: "list items", Err: err}
	}

	if resource.Embedded == nil || resource.Embedded.Items == nil {
		return []Item{}, nil
	}

	return resource.Embedded.Items, nil
}

func (client *diskClient) do(op, method, route string, params url.Values) ([]byte, error) {
	address := client.endpoint + route + "?" + params.Encode()
	res, err := client.http.Do(method, address, client.headers, nil)
	if err != nil {
		return nil, failure.NewTransport(op, err)
	}

	body, err := res.ReadAll()
	if err != nil {
		return nil, failure.NewTransport(op, err)
	}

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return body, nil
	}

	var response DiskError
	if err := json.Unmarshal(body, &response); err != nil || response.Error == "" {
		return nil, failure.NewProtocol(op, res.StatusCode, "", "")
	}

	message := response.Message
	if message == "" {
		message = response.Description
	}

	return nil, failure.NewProtocol(op, res.StatusCode, response.Error, message)
}
