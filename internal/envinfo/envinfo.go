// Package envinfo reports the host environment perflens runs on.
package envinfo

import (
	"log"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Report is a point-in-time snapshot of the host environment.
type Report struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Arch            string `json:"arch"`
	GoVersion       string `json:"goVersion"`
	CPUs            int    `json:"cpus"`
	CPUModel        string `json:"cpuModel,omitempty"`
	TotalMemory     uint64 `json:"totalMemory"`
	AvailableMemory uint64 `json:"availableMemory"`
}

// Collect gathers a best-effort snapshot. Gauges that cannot be read are
// left at their zero value rather than failing the whole report.
func Collect() *Report {
	r := &Report{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		CPUs:      runtime.NumCPU(),
	}

	if host, err := os.Hostname(); err == nil {
		r.Hostname = host
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		r.CPUModel = infos[0].ModelName
	} else if err != nil {
		log.Printf("envinfo: cpu info: %v", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.TotalMemory = vm.Total
		r.AvailableMemory = vm.Available
	} else {
		log.Printf("envinfo: memory info: %v", err)
	}
	return r
}
