// config.go — the Configuration table of the external interface contract.
package types

// Configuration is the set of enumerated options a Session Controller accepts.
// yaml tags double as the on-disk schema (see internal/config).
type Configuration struct {
	TargetURL           string `yaml:"targetUrl" json:"targetUrl,omitempty"`
	OutputFolder        string `yaml:"outputFolder" json:"outputFolder"`
	UserAgent           string `yaml:"userAgent" json:"userAgent,omitempty"`
	WinWidth            int    `yaml:"winWidth" json:"winWidth,omitempty"`
	WinHeight           int    `yaml:"winHeight" json:"winHeight,omitempty"`
	RedactSecrets       bool   `yaml:"redactSecrets" json:"redactSecrets"`
	CaptureBodies       bool   `yaml:"captureBodies" json:"captureBodies"`
	CaptureBodyMaxBytes int64  `yaml:"captureBodyMaxBytes" json:"captureBodyMaxBytes"`
	CaptureBodyTypes    string `yaml:"captureBodyTypes" json:"captureBodyTypes"`
	EnableCDP           bool   `yaml:"enableCdp" json:"enableCdp"`
}

// Defaults returns a Configuration with the module's baseline values applied
// to fields the caller left at their zero value.
func (c Configuration) Defaults() Configuration {
	if c.CaptureBodyMaxBytes == 0 {
		c.CaptureBodyMaxBytes = 1 << 20
	}
	if c.CaptureBodyTypes == "" {
		c.CaptureBodyTypes = "^application/json"
	}
	if c.OutputFolder == "" {
		c.OutputFolder = "./captures"
	}
	return c
}
