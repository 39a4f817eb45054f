package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		ReportPath:         ptr.To(defaultReportPath()),
		ReportWaitSeconds:  ptr.To(2),
		DefaultBattery:     ptr.To(0),
		Schedule:           ptr.To(""),
		AllowNonRootAccess: ptr.To(false),
	}
)

// defaultReportPath mirrors where the OS tool would drop the report by
// hand: the user's home directory.
func defaultReportPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "battery-report.html"
	}
	return filepath.Join(home, "battery-report.html")
}

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

type RawFileConfig struct {
	ReportPath         *string `json:"reportPath,omitempty"`
	ReportWaitSeconds  *int    `json:"reportWaitSeconds,omitempty"`
	DefaultBattery     *int    `json:"defaultBattery,omitempty"`
	Schedule           *string `json:"schedule,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	return &RawFileConfig{
		ReportPath:         ptr.To(c.ReportPath()),
		ReportWaitSeconds:  ptr.To(int(c.ReportWait() / time.Second)),
		DefaultBattery:     ptr.To(c.DefaultBattery()),
		Schedule:           ptr.To(c.Schedule()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}, nil
}

func (f *File) ReportPath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.ReportPath != nil {
		return *f.c.ReportPath
	}
	return *defaultFileConfig.ReportPath
}

func (f *File) ReportWait() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	seconds := *defaultFileConfig.ReportWaitSeconds
	if f.c.ReportWaitSeconds != nil {
		seconds = *f.c.ReportWaitSeconds
	}
	if seconds <= 0 {
		seconds = *defaultFileConfig.ReportWaitSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (f *File) DefaultBattery() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.DefaultBattery != nil {
		return *f.c.DefaultBattery
	}
	return *defaultFileConfig.DefaultBattery
}

func (f *File) Schedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Schedule != nil {
		return *f.c.Schedule
	}
	return *defaultFileConfig.Schedule
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) SetReportPath(p string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ReportPath = &p
}

func (f *File) SetDefaultBattery(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < 0 {
		panic("battery index must not be negative")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DefaultBattery = &i
}

func (f *File) SetSchedule(expr string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Schedule = &expr
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// An empty file also means the empty config.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if err := json.Unmarshal(b, &conf); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.c); err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"reportPath":         f.ReportPath(),
		"reportWaitSeconds":  int(f.ReportWait() / time.Second),
		"defaultBattery":     f.DefaultBattery(),
		"schedule":           f.Schedule(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
