package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/rescuesim/rescue-engine/pkg/player"
	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listRescues(client *http.Client, baseURL string) ([]rescue.RescueItem, error) {
	resp, err := client.Get(baseURL + "/v1/rescues")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to list rescues")
	}

	var items []rescue.RescueItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse rescue list: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func createSession(client *http.Client, baseURL, rescueID string) (*player.Frame, error) {
	jsonData, err := json.Marshal(map[string]string{"rescue_id": rescueID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to create session")
	}
	return parseFrame(body)
}

func getFrame(client *http.Client, baseURL, sessionID string) (*player.Frame, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get session")
	}
	return parseFrame(body)
}

func pressTrigger(client *http.Client, baseURL, sessionID, triggerID string) (*player.Frame, error) {
	return postAction(client,
		fmt.Sprintf("%s/v1/sessions/%s/press", baseURL, sessionID),
		map[string]string{"trigger_id": triggerID})
}

func pressFolderItem(client *http.Client, baseURL, sessionID, triggerID, itemID string) (*player.Frame, error) {
	return postAction(client,
		fmt.Sprintf("%s/v1/sessions/%s/folder-press", baseURL, sessionID),
		map[string]string{"trigger_id": triggerID, "item_id": itemID})
}

func postAction(client *http.Client, url string, req map[string]string) (*player.Frame, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "action failed")
	}
	return parseFrame(body)
}

func endSession(client *http.Client, baseURL, sessionID string) error {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body, "failed to end session")
	}
	return nil
}

func parseFrame(body []byte) (*player.Frame, error) {
	var frame player.Frame
	if err := json.Unmarshal(body, &frame); err != nil {
		return nil, fmt.Errorf("failed to parse frame response: %w", err)
	}
	return &frame, nil
}

func apiError(status int, body []byte, context string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s: %s", context, errorResp.Error)
}
