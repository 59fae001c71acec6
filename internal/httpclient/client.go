package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/xray-worker/internal/config"
	werrors "github.com/scan-io-git/xray-worker/internal/errors"
)

// Request is a single outbound HTTP call.
type Request struct {
	Op      string // Op names the call in errors and logs
	Method  string
	URL     string
	Headers map[string]string
	Body    interface{}
	Timeout time.Duration // Timeout bounds this call; zero leaves the client default
}

// Response is the outcome of a successful (2xx) call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends requests and fails with *errors.NetworkError or *errors.StatusError.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// RestyTransport implements Transport on top of a resty client.
type RestyTransport struct {
	client *resty.Client
}

// NewTransport wraps an initialized resty client.
func NewTransport(client *resty.Client) *RestyTransport {
	return &RestyTransport{client: client}
}

// New creates a Transport configured from the global configuration.
func New(logger hclog.Logger, cfg *config.Config) *RestyTransport {
	return NewTransport(InitializeRestyClient(logger, cfg))
}

// Send executes the request once. Any status outside 2xx is reported as a StatusError.
func (t *RestyTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := t.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		netErr := werrors.NewNetworkError(req.Op, req.URL, err)
		if resp != nil && resp.RawResponse != nil {
			netErr.StatusCode = resp.StatusCode()
		}
		return nil, netErr
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, werrors.NewStatusError(req.Op, req.URL, resp.StatusCode(), resp.String())
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// HclogAdapter adapts an hclog.Logger to be compatible with the resty log.Logger interface.
type HclogAdapter struct {
	logger hclog.Logger
}

// NewHclogAdapter creates a new adapter that will forward messages to a hclog.Logger.
func NewHclogAdapter(logger hclog.Logger) resty.Logger {
	return &HclogAdapter{logger: logger}
}

// Errorf logs a message at error level.
func (a *HclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

// Warnf logs a message at warning level.
func (a *HclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

// Debugf logs a message at debug level.
func (a *HclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// InitializeRestyClient initializes and configures a resty client based on the provided configuration.
func InitializeRestyClient(logger hclog.Logger, cfg *config.Config) *resty.Client {
	client := resty.New()
	if logger != nil {
		client.SetLogger(NewHclogAdapter(logger))
	}

	restyConfig := applyHTTPClientConfig(cfg)
	client.
		SetDebug(restyConfig.Debug).
		SetRetryCount(restyConfig.RetryCount).
		SetTimeout(restyConfig.Timeout).
		SetTLSClientConfig(restyConfig.TLSClientConfig)
	if restyConfig.Proxy != "" {
		client.SetProxy(restyConfig.Proxy)
	}

	return client
}

// applyHTTPClientConfig applies the HTTPClient configuration or uses default values.
func applyHTTPClientConfig(cfg *config.Config) config.RestyHTTPClientConfig {
	restyConfig := config.DefaultRestyConfig()
	if cfg == nil {
		return restyConfig
	}

	httpConfig := &cfg.HTTPClient
	restyConfig.Debug = config.GetBoolValue(httpConfig, "Debug", restyConfig.Debug)
	restyConfig.Timeout = config.SetThen(httpConfig.Timeout, restyConfig.Timeout)
	restyConfig.TLSClientConfig.InsecureSkipVerify = !config.GetBoolValue(httpConfig, "TLSClientConfig.Verify", true)

	if httpConfig.Proxy.Host != "" && httpConfig.Proxy.Port != 0 {
		restyConfig.Proxy = fmt.Sprintf("%s:%d", httpConfig.Proxy.Host, httpConfig.Proxy.Port)
	}

	return restyConfig
}
