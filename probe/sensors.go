package probe

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// SensorsProbe reports thermal readings and motion/environment sensors
// exposed through the IIO subsystem. Most desktops have thermal zones
// and nothing else; that is a result, not an error.
type SensorsProbe struct {
	Root         string
	temperatures func(ctx context.Context) ([]sensors.TemperatureStat, error)
}

func NewSensorsProbe() *SensorsProbe {
	return &SensorsProbe{temperatures: sensors.TemperaturesWithContext}
}

func (p *SensorsProbe) Name() string  { return "sensors" }
func (p *SensorsProbe) Title() string { return "Sensors" }

func (p *SensorsProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	temps, err := p.temperatures(ctx)
	if err != nil && len(temps) == 0 {
		g.Add("thermalZones", model.Failed(err))
		g.Add("hottest", model.Failed(err))
	} else {
		g.Add("thermalZones", model.Count(len(temps)))
		g.Add("hottest", hottestValue(temps))
	}

	iio := iioInventory(sysPath(p.Root, "/sys/bus/iio/devices"))
	g.Add("iioDevices", model.Count(iio.total))
	g.Add("accelerometer", iio.value("accel"))
	g.Add("gyroscope", iio.value("gyro"))
	g.Add("magnetometer", iio.value("magn"))
	g.Add("ambientLight", iio.value("als", "light"))
	g.Add("fans", fanCount(sysPath(p.Root, "/sys/class/hwmon")))
	return g
}

// fanCount counts fan tachometer inputs across all hwmon chips.
func fanCount(base string) model.Value {
	chips := util.DirNames(base)
	if chips == nil {
		return model.NotSupported()
	}
	n := 0
	for _, chip := range chips {
		for _, f := range util.DirNames(base + "/" + chip) {
			if strings.HasPrefix(f, "fan") && strings.HasSuffix(f, "_input") {
				n++
			}
		}
	}
	return model.Count(n)
}

// hottestValue picks the highest temperature reading.
func hottestValue(temps []sensors.TemperatureStat) model.Value {
	if len(temps) == 0 {
		return model.Absent()
	}
	best := temps[0]
	for _, t := range temps[1:] {
		if t.Temperature > best.Temperature {
			best = t
		}
	}
	if best.Temperature == 0 {
		return model.Absent()
	}
	return model.Textf("%.1f°C (%s)", best.Temperature, best.SensorKey)
}

// iioDevices is the classified inventory of one scan of the IIO bus.
type iioDevices struct {
	total int
	names []string // lowercased device names
}

// iioInventory reads the name of every IIO device under base.
func iioInventory(base string) iioDevices {
	inv := iioDevices{}
	for _, entry := range util.DirNames(base) {
		if !strings.HasPrefix(entry, "iio:device") {
			continue
		}
		inv.total++
		if name := util.ReadSysString(base + "/" + entry + "/name"); name != "" {
			inv.names = append(inv.names, strings.ToLower(name))
		}
	}
	return inv
}

// value reports the first device whose name matches one of the hints,
// or unsupported when the scan positively found no such sensor.
func (d iioDevices) value(hints ...string) model.Value {
	for _, name := range d.names {
		for _, h := range hints {
			if strings.Contains(name, h) {
				return model.Text(name)
			}
		}
	}
	return model.NotSupported()
}
