package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/battcheck/battcheck/pkg/battery"
	"github.com/battcheck/battcheck/pkg/checker"
	"github.com/battcheck/battcheck/pkg/config"
)

// GetBatteries lists the batteries the daemon can see.
func (c *Client) GetBatteries() ([]battery.Info, error) {
	ret, err := c.Get("/batteries")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list batteries")
	}

	var infos []battery.Info
	if err := json.Unmarshal([]byte(ret), &infos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batteries: %w", err)
	}
	return infos, nil
}

// StartCheck asks the daemon to run one health check against the given
// battery index. A negative index means the daemon's configured default.
func (c *Client) StartCheck(index int) (string, error) {
	path := "/checks"
	if index >= 0 {
		path += "?battery=" + strconv.Itoa(index)
	}
	return c.Post(path, "")
}

// LastCheck is the daemon's record of the most recent check.
type LastCheck struct {
	Result  *checker.Result `json:"result"`
	Failure string          `json:"failure"`
}

// GetLastCheck fetches the most recent check outcome. ErrNotFound means
// no check has completed yet.
func (c *Client) GetLastCheck() (*LastCheck, error) {
	ret, err := c.Get("/checks/last")
	if err != nil {
		return nil, err
	}

	var last LastCheck
	if err := json.Unmarshal([]byte(ret), &last); err != nil {
		return nil, fmt.Errorf("failed to unmarshal last check: %w", err)
	}
	return &last, nil
}

// CheckState is the daemon's live pipeline state.
type CheckState struct {
	State   checker.State `json:"state"`
	Running bool          `json:"running"`
}

func (c *Client) GetCheckState() (*CheckState, error) {
	ret, err := c.Get("/checks/state")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get check state")
	}

	var st CheckState
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check state: %w", err)
	}
	return &st, nil
}

// SystemInfo is the daemon's view of the host it runs on.
type SystemInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelVersion   string `json:"kernelVersion"`
	UptimeSeconds   uint64 `json:"uptimeSeconds"`
	BatteryPresent  bool   `json:"batteryPresent"`
	AdminRights     bool   `json:"adminRights"`
}

func (c *Client) GetSystem() (*SystemInfo, error) {
	ret, err := c.Get("/system")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get system info")
	}

	var info SystemInfo
	if err := json.Unmarshal([]byte(ret), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal system info: %w", err)
	}
	return &info, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

// SetSchedule installs a cron expression for periodic checks.
func (c *Client) SetSchedule(expr string) (string, error) {
	return c.Put("/schedule", expr)
}

// DisableSchedule turns periodic checks off.
func (c *Client) DisableSchedule() (string, error) {
	return c.Delete("/schedule")
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	// Remove "" around the JSON string without dragging in a decoder.
	ret = strings.TrimSpace(ret)
	if len(ret) >= 2 && ret[0] == '"' && ret[len(ret)-1] == '"' {
		ret = ret[1 : len(ret)-1]
	}
	return ret, nil
}
