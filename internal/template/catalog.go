// Package template provisions new applications from remotely hosted
// scaffolds: a registry document lists the available templates, and
// materializing one downloads its file set, fills in the app's name,
// and leaves behind a fresh git repository.
package template

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/version"
)

// Template describes one scaffold in the registry document.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	// URL is the base the file set is downloaded from.
	URL   string   `json:"url"`
	Files []string `json:"files"`
	Tags  []string `json:"tags,omitempty"`
}

// catalogDocument is the registry document shape.
type catalogDocument struct {
	Templates []Template `json:"templates"`
}

// Retry behavior for registry and file downloads. Tests shrink these.
var (
	retryMax     = 2
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// httpClient builds the retrying HTTP client used for the registry
// document and file downloads. Transient failures retry with backoff;
// hard failures (404 and friends) do not.
func httpClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}

// ListTemplates fetches the template registry. Network trouble is
// degraded to an empty list with a warning: an unreachable registry
// must not take down a CLI that mostly manages local apps.
func ListTemplates(ctx context.Context, registryURL string) []Template {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registryURL, nil)
	if err != nil {
		logger.Warn(ctx, "Could not build template registry request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", version.ApplicationName+"/"+version.Version)

	resp, err := httpClient().Do(req)
	if err != nil {
		logger.Warn(ctx, "Template registry '{{_URL_}}%s{{|-|}}' is not reachable: %v", registryURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "Template registry '{{_URL_}}%s{{|-|}}' answered %s.", registryURL, resp.Status)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn(ctx, "Failed to read template registry: %v", err)
		return nil
	}

	var doc catalogDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		logger.Warn(ctx, "Template registry document is not valid: %v", err)
		return nil
	}
	return doc.Templates
}

// Find returns the template with the given id.
func Find(templates []Template, id string) (Template, error) {
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, errdefs.NotFound(errdefs.KindTemplate, id)
}

// Label renders a one-line description for pickers and listings.
func (t Template) Label() string {
	if t.Description == "" {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.Name, t.Description)
}
