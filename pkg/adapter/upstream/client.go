package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

const DefaultTimeout = 10 * time.Second

// route is where a dimension document lives upstream and the type it decodes into
type route struct {
	path   string
	decode func(body []byte) (interface{}, error)
}

func decodeInto[T any](body []byte) (interface{}, error) {
	var doc T
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

var routes = map[domain.Dimension]route{
	domain.DimensionGlobal:               {path: "/global", decode: decodeInto[domain.GlobalView]},
	domain.DimensionInfrastructure:       {path: "/infrastructure", decode: decodeInto[domain.InfrastructureBreakdown]},
	domain.DimensionRegional:             {path: "/regional", decode: decodeInto[domain.RegionalBreakdown]},
	domain.DimensionBusinessUnit:         {path: "/business-units", decode: decodeInto[domain.BusinessUnitBreakdown]},
	domain.DimensionSystemClassification: {path: "/system-classification", decode: decodeInto[domain.SystemClassificationBreakdown]},
	domain.DimensionSecurityControls:     {path: "/security-controls", decode: decodeInto[domain.SecurityControlCoverage]},
	domain.DimensionDomain:               {path: "/domains", decode: decodeInto[domain.DomainBreakdown]},
	domain.DimensionCompliance:           {path: "/compliance", decode: decodeInto[domain.ComplianceMatrix]},
}

// Client fetches dimension documents from another dashboard API over HTTP
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates an upstream source. baseURL is the dashboard group root,
// e.g. http://visibility:8080/api/v1/dashboard
func NewClient(baseURL string, timeout time.Duration) visibilityPort.Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// Fetch maps transport failures and non-2xx replies to ErrSourceUnreachable and
// bodies that do not decode into the dimension's document to ErrShapeMismatch
func (c *Client) Fetch(ctx context.Context, dimension domain.Dimension) (interface{}, error) {
	r, ok := routes[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDimension, dimension)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}

	url := c.baseURL + r.path
	logger.DebugContext(ctx, "Upstream: Fetching %s from %s", dimension, url)

	agent := fiber.Get(url)
	agent.Timeout(c.timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnreachable, url, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		logger.WarnContext(ctx, "Upstream: Request for %s failed: %v", dimension, errs)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnreachable, url, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		logger.WarnContext(ctx, "Upstream: %s answered %d", url, code)
		return nil, fmt.Errorf("%w: %s answered %d", domain.ErrSourceUnreachable, url, code)
	}

	doc, err := r.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrShapeMismatch, dimension, err)
	}
	return doc, nil
}
