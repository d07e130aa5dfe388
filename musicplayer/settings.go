package musicplayer

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const settingsPath = "/mopify-settings/settings"

// GetSettings fetches the settings the Mopify extension exposes from Mopidy's config file. The
// body is returned as is, it isn't a structured format.
func (m *MopidyService) GetSettings(ctx context.Context) (string, error) {
	mopidyIP, mopidyPort := m.hostAndPort()
	url := fmt.Sprintf("http://%s:%s%s", mopidyIP, mopidyPort, settingsPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("getting mopidy settings failed with status %d: %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}
