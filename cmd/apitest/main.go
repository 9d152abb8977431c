package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// PanchangamResponse is the response for POST /api/v1/panchangam
type PanchangamResponse struct {
	Location struct {
		City      string  `json:"city"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Date      string     `json:"date"`
	Vaara     string     `json:"vaara"`
	Sunrise   string     `json:"sunrise"`
	Sunset    string     `json:"sunset"`
	Moonrise  string     `json:"moonrise"`
	Moonset   string     `json:"moonset"`
	Tithi     PeriodTime `json:"tithi"`
	Nakshatra PeriodTime `json:"nakshatra"`
	Karana    PeriodTime `json:"karana"`
	Yoga      PeriodTime `json:"yoga"`
}

type PeriodTime struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodsResponse is the response for POST /api/v1/periods
type PeriodsResponse struct {
	Date          string      `json:"date"`
	Timezone      string      `json:"timezone"`
	Vaara         string      `json:"vaara"`
	Sunrise       string      `json:"sunrise"`
	SunriseNext   string      `json:"sunrise_next"`
	HinduDayStart string      `json:"hindu_day_start"`
	HinduDayEnd   string      `json:"hindu_day_end"`
	Tithis        ElementView `json:"tithis"`
	Nakshatras    ElementView `json:"nakshatras"`
	Karanas       ElementView `json:"karanas"`
	Yogas         ElementView `json:"yogas"`
}

type ElementView struct {
	Periods []PeriodView `json:"periods"`
	Skipped bool         `json:"skipped"`
}

type PeriodView struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// CitiesResponse is the response for GET /api/v1/cities
type CitiesResponse struct {
	Cities []City `json:"cities"`
	Count  int    `json:"count"`
}

type City struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
	cities       []City
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Panchangam API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testCities()
	tr.testPanchangam()
	tr.testPeriods()
	tr.testWeekSweep()
	tr.testEdgeCases()
	tr.testAdmin()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (db: %s, cache: %s)",
			health.Database, health.Cache))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testCities() {
	tr.printSection("City Catalog")

	resp, err := tr.get("/api/v1/cities")
	if err != nil {
		tr.recordError("Cities", err.Error())
		return
	}

	var data CitiesResponse
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Cities", err.Error())
		return
	}

	if data.Count == 0 || len(data.Cities) == 0 {
		tr.recordError("Cities", "Catalog is empty; run cmd/import first")
		return
	}
	if data.Count != len(data.Cities) {
		tr.recordError("Cities", fmt.Sprintf("Count %d does not match %d entries",
			data.Count, len(data.Cities)))
		return
	}

	for _, city := range data.Cities {
		if city.Slug == "" || city.Name == "" || city.Timezone == "" {
			tr.recordError("Cities", fmt.Sprintf("Incomplete entry: %+v", city))
			return
		}
	}

	tr.cities = data.Cities
	tr.recordSuccess(fmt.Sprintf("Catalog lists %d cities", data.Count))
}

func (tr *TestRunner) testPanchangam() {
	tr.printSection("Panchangam (every catalog city, today)")

	if len(tr.cities) == 0 {
		tr.recordError("Panchangam", "No cities to test against")
		return
	}

	date := time.Now().UTC().Format("2006-01-02")

	for _, city := range tr.cities {
		body := map[string]interface{}{
			"date":      date,
			"latitude":  city.Latitude,
			"longitude": city.Longitude,
			"city":      city.Name,
		}

		resp, err := tr.post("/api/v1/panchangam", body)
		if err != nil {
			tr.recordError(city.Name, err.Error())
			continue
		}

		var data PanchangamResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(city.Name, err.Error())
			continue
		}

		if err := tr.checkPanchangam(&data, city.Name, date); err != nil {
			tr.recordError(city.Name, err.Error())
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s, %s, sunrise %s",
			city.Name, data.Vaara, data.Tithi.Name, data.Sunrise))

		if tr.verbose {
			fmt.Printf("    Nakshatra: %s\n", data.Nakshatra.Name)
			fmt.Printf("    Yoga:      %s\n", data.Yoga.Name)
			fmt.Printf("    Karana:    %s\n", data.Karana.Name)
			fmt.Println()
		}
	}
}

func (tr *TestRunner) checkPanchangam(data *PanchangamResponse, cityName, date string) error {
	if data.Location.City != cityName {
		return fmt.Errorf("city echo: expected %q, got %q", cityName, data.Location.City)
	}
	if data.Date != date {
		return fmt.Errorf("date echo: expected %q, got %q", date, data.Date)
	}
	if data.Vaara == "" {
		return fmt.Errorf("vaara is empty")
	}
	if _, err := time.Parse("03:04 PM", data.Sunrise); err != nil {
		return fmt.Errorf("sunrise %q: %v", data.Sunrise, err)
	}

	for _, pt := range []struct {
		label string
		pt    PeriodTime
	}{
		{"tithi", data.Tithi},
		{"nakshatra", data.Nakshatra},
		{"karana", data.Karana},
		{"yoga", data.Yoga},
	} {
		if pt.pt.Name == "" {
			return fmt.Errorf("%s name is empty", pt.label)
		}
		if _, err := time.Parse(time.RFC3339, pt.pt.Start); err != nil {
			return fmt.Errorf("%s start %q: %v", pt.label, pt.pt.Start, err)
		}
		if _, err := time.Parse(time.RFC3339, pt.pt.End); err != nil {
			return fmt.Errorf("%s end %q: %v", pt.label, pt.pt.End, err)
		}
	}

	return nil
}

func (tr *TestRunner) testPeriods() {
	tr.printSection("Hindu Day Periods")

	date := time.Now().UTC().Format("2006-01-02")
	body := map[string]interface{}{
		"date":      date,
		"latitude":  12.9719,
		"longitude": 77.5930,
		"timezone":  "Asia/Kolkata",
	}

	resp, err := tr.post("/api/v1/periods", body)
	if err != nil {
		tr.recordError("Periods", err.Error())
		return
	}

	var data PeriodsResponse
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Periods", err.Error())
		return
	}

	if data.HinduDayStart != data.Sunrise {
		tr.recordError("Periods", "Hindu day must start at sunrise")
		return
	}
	if data.HinduDayEnd != data.SunriseNext {
		tr.recordError("Periods", "Hindu day must end at next sunrise")
		return
	}

	elements := []struct {
		label    string
		elem     ElementView
		min, max int
	}{
		{"tithis", data.Tithis, 1, 3},
		{"nakshatras", data.Nakshatras, 1, 3},
		{"karanas", data.Karanas, 2, 4},
		{"yogas", data.Yogas, 1, 3},
	}

	for _, e := range elements {
		n := len(e.elem.Periods)
		if n < e.min || n > e.max {
			tr.recordError("Periods", fmt.Sprintf("%s: %d periods, expected %d-%d",
				e.label, n, e.min, e.max))
			return
		}
		for i := 1; i < len(e.elem.Periods); i++ {
			if e.elem.Periods[i].Start != e.elem.Periods[i-1].End {
				tr.recordError("Periods", fmt.Sprintf("%s: gap after period %d",
					e.label, e.elem.Periods[i-1].Number))
				return
			}
		}
		tr.recordSuccess(fmt.Sprintf("%s: %d contiguous periods", e.label, n))
	}
}

func (tr *TestRunner) testWeekSweep() {
	tr.printSection("Week Sweep (Bengaluru)")

	start := time.Now().UTC()
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		body := map[string]interface{}{
			"date":      date,
			"latitude":  12.9719,
			"longitude": 77.5930,
			"city":      "Bengaluru",
		}

		resp, err := tr.post("/api/v1/panchangam", body)
		if err != nil {
			tr.recordError(date, err.Error())
			continue
		}

		var data PanchangamResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(date, err.Error())
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s / %s", date, data.Vaara, data.Tithi.Name))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	today := time.Now().UTC().Format("2006-01-02")

	// Invalid JSON body
	resp, _ := tr.postRaw("/api/v1/panchangam", []byte("{not json"), "")
	if resp != nil && resp.StatusCode == 400 {
		tr.recordSuccess("Invalid JSON rejected")
	} else {
		tr.recordError("Invalid JSON", "Should return 400")
	}

	// Missing date
	resp2, _ := tr.postJSON("/api/v1/panchangam", map[string]interface{}{
		"latitude": 12.9719, "longitude": 77.5930, "city": "Bengaluru",
	})
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Missing date rejected")
	} else {
		tr.recordError("Missing date", "Should return 400")
	}

	// Wrong date format
	resp3, _ := tr.postJSON("/api/v1/panchangam", map[string]interface{}{
		"date": "25-12-2025", "latitude": 12.9719, "longitude": 77.5930, "city": "Bengaluru",
	})
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Wrong date format rejected")
	} else {
		tr.recordError("Wrong format", "Should reject 25-12-2025")
	}

	// Latitude out of range
	resp4, _ := tr.postJSON("/api/v1/panchangam", map[string]interface{}{
		"date": today, "latitude": 95.0, "longitude": 77.5930, "city": "Bengaluru",
	})
	if resp4 != nil && resp4.StatusCode == 400 {
		tr.recordSuccess("Out-of-range latitude rejected")
	} else {
		tr.recordError("Latitude", "Should reject latitude 95")
	}

	// City not in catalog
	resp5, _ := tr.postJSON("/api/v1/panchangam", map[string]interface{}{
		"date": today, "latitude": 12.9719, "longitude": 77.5930, "city": "Gotham",
	})
	if resp5 != nil && resp5.StatusCode == 400 {
		tr.recordSuccess("Unknown city rejected")
	} else {
		tr.recordError("Unknown city", "Should return 400")
	}

	// Unknown timezone on periods
	resp6, _ := tr.postJSON("/api/v1/periods", map[string]interface{}{
		"date": today, "latitude": 12.9719, "longitude": 77.5930, "timezone": "Mars/Olympus",
	})
	if resp6 != nil && resp6.StatusCode == 400 {
		tr.recordSuccess("Unknown timezone rejected")
	} else {
		tr.recordError("Timezone", "Should reject Mars/Olympus")
	}

	// Polar night: no sunrise to anchor the Hindu day
	winterDate := fmt.Sprintf("%d-12-21", time.Now().UTC().Year())
	resp7, _ := tr.postJSON("/api/v1/periods", map[string]interface{}{
		"date": winterDate, "latitude": 85.0, "longitude": 20.0,
	})
	if resp7 != nil && resp7.StatusCode == 422 {
		tr.recordSuccess("Polar night returns 422")
	} else {
		tr.recordError("Polar night", "Should return 422 for latitude 85 in December")
	}

	// GET on a POST route
	resp8, _ := tr.getRaw("/api/v1/panchangam")
	if resp8 != nil && resp8.StatusCode == 405 {
		tr.recordSuccess("GET on POST route returns 405")
	} else {
		tr.recordError("Method", "Should return 405")
	}
}

func (tr *TestRunner) testAdmin() {
	tr.printSection("Admin")

	body := map[string]interface{}{
		"name":      "Varanasi",
		"latitude":  25.3176,
		"longitude": 82.9739,
		"timezone":  "Asia/Kolkata",
	}
	payload, _ := json.Marshal(body)

	// Without a key the endpoint must refuse.
	resp, _ := tr.postRaw("/admin/locations", payload, "")
	if resp != nil && resp.StatusCode == 401 {
		tr.recordSuccess("Admin without API key rejected")
	} else if resp != nil && resp.StatusCode == 201 {
		// Development mode with no key configured skips auth.
		tr.recordSuccess("Admin open (development mode, no key configured)")
	} else {
		tr.recordError("Admin auth", "Unexpected response without API key")
	}

	if tr.apiKey == "" {
		fmt.Println("  (skipping authenticated admin tests; pass -api-key to enable)")
		return
	}

	resp2, err := tr.postRaw("/admin/locations", payload, tr.apiKey)
	if err != nil {
		tr.recordError("Admin upsert", err.Error())
		return
	}
	if resp2.StatusCode != 201 {
		tr.recordError("Admin upsert", fmt.Sprintf("HTTP %d", resp2.StatusCode))
		return
	}
	tr.recordSuccess("Varanasi upserted into the catalog")

	// The new city must be usable immediately.
	resp3, err := tr.post("/api/v1/panchangam", map[string]interface{}{
		"date":      time.Now().UTC().Format("2006-01-02"),
		"latitude":  25.3176,
		"longitude": 82.9739,
		"city":      "Varanasi",
	})
	if err != nil {
		tr.recordError("Admin round-trip", err.Error())
		return
	}
	_ = resp3
	tr.recordSuccess("New city serves panchangam requests")
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	return tr.decode(resp)
}

func (tr *TestRunner) post(path string, body interface{}) (*APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	resp, err := tr.postRaw(path, payload, "")
	if err != nil {
		return nil, err
	}
	return tr.decode(resp)
}

func (tr *TestRunner) decode(resp *http.Response) (*APIResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) postRaw(path string, payload []byte, apiKey string) (*http.Response, error) {
	req, err := http.NewRequest("POST", tr.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return tr.client.Do(req)
}

// postJSON posts a body and returns the raw response for status-code checks.
func (tr *TestRunner) postJSON(path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return tr.postRaw(path, payload, "")
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("api-key", "", "API key for admin endpoint tests")
	verbose := flag.Bool("v", false, "Verbose output (show element details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	_, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
