package domain

const (
	DEMO_SERVER_ID   = -999
	DEMO_SERVER_URL  = "http://demo.home-assistant.local"
	DEMO_SERVER_NAME = "Demo Home"
	DEMO_HA_VERSION  = "2025.3.0"
)

// DemoServer describes the pseudo server the host lists while demo mode is on.
type DemoServer struct {
	Id   int    `json:"id"`
	Url  string `json:"url"`
	Name string `json:"name"`
}

type DeviceRegistration struct {
	AppVersion string `json:"app_version"`
	DeviceName string `json:"device_name"`
	PushToken  string `json:"push_token"`
}

type RateLimits struct {
	Successful int     `json:"successful"`
	Errors     int     `json:"errors"`
	Total      int     `json:"total"`
	Maximum    int     `json:"maximum"`
	Remaining  int     `json:"remaining"`
	ResetsAt   *string `json:"resets_at"`
}

type BackendConfig struct {
	Components            []string          `json:"components"`
	ConfigDir             string            `json:"config_dir"`
	Elevation             int               `json:"elevation"`
	Latitude              float64           `json:"latitude"`
	Longitude             float64           `json:"longitude"`
	LocationName          string            `json:"location_name"`
	TimeZone              string            `json:"time_zone"`
	UnitSystem            map[string]string `json:"unit_system"`
	Version               string            `json:"version"`
	WhitelistExternalDirs []string          `json:"whitelist_external_dirs"`
}

// Service is one entry of the backend's service catalogue. The demo backend
// advertises none.
type Service struct {
	Domain   string   `json:"domain"`
	Services []string `json:"services"`
}
