package storage

import (
	"io"
	"net/http"

	"github.com/ddliu/go-httpclient"
	"github.com/schmich/dogdisk/failure"
)

// fetch performs the server side of an upload by reference for backends that
// cannot pull a URL themselves. The caller closes the returned body.
func fetch(transport *httpclient.HttpClient, op, sourceURL string) (io.ReadCloser, error) {
	res, err := transport.Do(http.MethodGet, sourceURL, nil, nil)
	if err != nil {
		return nil, failure.NewTransport(op, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, failure.NewProtocol(op, res.StatusCode, "", "source not retrievable")
	}

	return res.Body, nil
}

func newTransport(timeout int) *httpclient.HttpClient {
	transport := httpclient.NewHttpClient()
	if timeout > 0 {
		transport.Defaults(httpclient.Map{httpclient.OPT_TIMEOUT: timeout})
	}

	return transport
}
