// E2E smoke test against a running API instance.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:8080"

var (
	apiBase string
	client  = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	fmt.Println("=== FuelTrack E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"List Profiles", testListProfiles},
		{"Add Entry", testAddEntry},
		{"Get Today", testGetToday},
		{"Weekly Totals", testWeeklyTotals},
		{"Food Suggestions", testSuggestions},
		{"Get Goals", testGetGoals},
		{"Estimate Maintenance", testEstimate},
		{"Export Report (CSV)", testExportCSV},
		{"Create Report (PDF)", testCreateReportPDF},
		{"Clear Today", testClearToday},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("SMOKE TEST PASSED")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getJSON(path string, out any) error {
	resp, err := client.Get(apiBase + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func postJSON(path string, payload any, wantStatus int, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(apiBase+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d, want %d: %s", path, resp.StatusCode, wantStatus, body)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func testHealthz() error {
	var resp map[string]string
	if err := getJSON("/healthz", &resp); err != nil {
		return err
	}
	if resp["status"] != "ok" {
		return fmt.Errorf("unexpected status: %q", resp["status"])
	}
	return nil
}

func testListProfiles() error {
	var resp struct {
		Items           []json.RawMessage `json:"items"`
		ActiveProfileID string            `json:"activeProfileId"`
	}
	return getJSON("/v1/profiles", &resp)
}

func testAddEntry() error {
	payload := map[string]any{
		"name":     "smoke test apple",
		"calories": 95,
		"protein":  0.5,
		"carbs":    25,
		"fats":     0.3,
	}
	return postJSON("/v1/log/entries", payload, http.StatusCreated, nil)
}

func testGetToday() error {
	var resp struct {
		Items  []json.RawMessage `json:"items"`
		Totals struct {
			Calories int `json:"calories"`
		} `json:"totals"`
	}
	if err := getJSON("/v1/log/today", &resp); err != nil {
		return err
	}
	if len(resp.Items) == 0 {
		return fmt.Errorf("today is empty after adding an entry")
	}
	return nil
}

func testWeeklyTotals() error {
	var resp struct {
		Days int `json:"days"`
	}
	if err := getJSON("/v1/log/totals/weekly", &resp); err != nil {
		return err
	}
	if resp.Days != 7 {
		return fmt.Errorf("days = %d, want 7", resp.Days)
	}
	return nil
}

func testSuggestions() error {
	var resp struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := getJSON("/v1/foods/suggestions?q=smoke", &resp); err != nil {
		return err
	}
	if len(resp.Items) == 0 {
		return fmt.Errorf("no suggestion for the entry just logged")
	}
	return nil
}

func testGetGoals() error {
	var resp struct {
		Calories int `json:"calories"`
	}
	if err := getJSON("/v1/goals", &resp); err != nil {
		return err
	}
	if resp.Calories <= 0 {
		return fmt.Errorf("calorie goal = %d", resp.Calories)
	}
	return nil
}

func testEstimate() error {
	payload := map[string]any{
		"sex":      "male",
		"weightKg": 80,
		"heightCm": 180,
		"age":      30,
		"activity": 1.55,
	}
	var resp struct {
		Maintenance float64 `json:"maintenance"`
	}
	if err := postJSON("/v1/goals/estimate", payload, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Maintenance <= 0 {
		return fmt.Errorf("maintenance = %v", resp.Maintenance)
	}
	return nil
}

func testExportCSV() error {
	resp, err := client.Get(apiBase + "/v1/reports/export?days=7&format=csv")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		return fmt.Errorf("content type %q", ct)
	}
	return nil
}

func testCreateReportPDF() error {
	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := postJSON("/v1/reports", map[string]any{"days": 30, "format": "pdf"}, http.StatusCreated, &resp); err != nil {
		return err
	}
	if resp.Key == "" || resp.URL == "" {
		return fmt.Errorf("empty key or url: %+v", resp)
	}
	return nil
}

func testClearToday() error {
	req, err := http.NewRequest(http.MethodDelete, apiBase+"/v1/log/today", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
