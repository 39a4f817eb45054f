package daemon

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/battery"
	"github.com/battcheck/battcheck/pkg/checker"
	"github.com/battcheck/battcheck/pkg/config"
	"github.com/battcheck/battcheck/pkg/version"
)

func getBatteries(c *gin.Context) {
	infos := battery.Enumerate()
	if infos == nil {
		infos = []battery.Info{}
	}
	c.IndentedJSON(http.StatusOK, infos)
}

func batteryPresent() bool {
	return len(battery.Enumerate()) > 0
}

func postCheck(c *gin.Context) {
	index := conf.DefaultBattery()
	if raw := c.Query("battery"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 {
			c.IndentedJSON(http.StatusBadRequest, "battery must be a non-negative integer")
			return
		}
		index = i
	}

	err := checkWorker.Trigger(index, checker.Callbacks{})
	if err != nil {
		if errors.Is(err, checker.ErrCheckInProgress) {
			c.IndentedJSON(http.StatusConflict, err.Error())
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.WithField("battery", index).Info("check started")
	c.IndentedJSON(http.StatusAccepted, "check started")
}

func getLastCheck(c *gin.Context) {
	result, failMsg := checkWorker.LastResult()
	if result == nil && failMsg == "" {
		c.IndentedJSON(http.StatusNotFound, "no check has completed yet")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"result":  result,
		"failure": failMsg,
	})
}

func getCheckState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"state":   checkWorker.State(),
		"running": checkWorker.Running(),
	})
}

func getSystem(c *gin.Context) {
	info, err := host.Info()
	if err != nil {
		logrus.Errorf("host info failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"hostname":        info.Hostname,
		"os":              info.OS,
		"platform":        info.Platform,
		"platformVersion": info.PlatformVersion,
		"kernelVersion":   info.KernelVersion,
		"uptimeSeconds":   info.Uptime,
		"batteryPresent":  batteryPresent(),
		"adminRights":     checkAdminRights(),
	})
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func putSchedule(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		return
	}
	expr := string(body)
	if expr == "" {
		c.IndentedJSON(http.StatusBadRequest, "schedule expression must not be empty")
		return
	}

	if err := sched.Schedule(expr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetSchedule(expr)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("scheduled checks set to %q", expr)
	c.IndentedJSON(http.StatusCreated, "schedule set to "+expr)
}

func deleteSchedule(c *gin.Context) {
	sched.Clear()
	conf.SetSchedule("")
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Info("scheduled checks disabled")
	c.IndentedJSON(http.StatusOK, "schedule disabled")
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
