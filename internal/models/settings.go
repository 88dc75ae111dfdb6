package models

// Settings keys for analytics integration
const (
	SettingGoogleAnalyticsID     = "google_analytics_id"
	SettingGoogleSearchConsoleID = "google_search_console_id"
	SettingGoogleAdsID           = "google_ads_id"
	SettingGoogleTagManagerID    = "google_tag_manager_id"
)

// AnalyticsConfig holds the site's third-party tracking identifiers
type AnalyticsConfig struct {
	GoogleAnalyticsID     string `json:"googleAnalyticsId"`
	GoogleSearchConsoleID string `json:"googleSearchConsoleId"`
	GoogleAdsID           string `json:"googleAdsId"`
	GoogleTagManagerID    string `json:"googleTagManagerId"`
}

// AnalyticsConfigUpdate is a partial update; nil fields keep their value
type AnalyticsConfigUpdate struct {
	GoogleAnalyticsID     *string `json:"googleAnalyticsId"`
	GoogleSearchConsoleID *string `json:"googleSearchConsoleId"`
	GoogleAdsID           *string `json:"googleAdsId"`
	GoogleTagManagerID    *string `json:"googleTagManagerId"`
}

// Values maps the fields present in the update to their settings keys
func (u *AnalyticsConfigUpdate) Values() map[string]string {
	values := make(map[string]string)
	if u.GoogleAnalyticsID != nil {
		values[SettingGoogleAnalyticsID] = *u.GoogleAnalyticsID
	}
	if u.GoogleSearchConsoleID != nil {
		values[SettingGoogleSearchConsoleID] = *u.GoogleSearchConsoleID
	}
	if u.GoogleAdsID != nil {
		values[SettingGoogleAdsID] = *u.GoogleAdsID
	}
	if u.GoogleTagManagerID != nil {
		values[SettingGoogleTagManagerID] = *u.GoogleTagManagerID
	}
	return values
}

// PublicAnalyticsConfig is what the public site needs to load trackers
type PublicAnalyticsConfig struct {
	GoogleAnalyticsID  string `json:"googleAnalyticsId"`
	GoogleTagManagerID string `json:"googleTagManagerId"`
}
