package runtime

import (
	goruntime "runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment describes the machine a benchmark runs on. Timings taken in
// a container or under a CPU quota are not comparable with bare metal.
type Environment struct {
	GoVersion   string
	GOMAXPROCS  int
	NumCPU      int
	CPUModel    string
	Platform    string
	Kernel      string
	Container   ContainerKind
	ContainerID string
}

var _ zapcore.ObjectMarshaler = Environment{}

func (env Environment) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("goVersion", env.GoVersion)
	enc.AddInt("gomaxprocs", env.GOMAXPROCS)
	enc.AddInt("numCPU", env.NumCPU)
	enc.AddString("cpuModel", env.CPUModel)
	enc.AddString("platform", env.Platform)
	enc.AddString("kernel", env.Kernel)
	enc.AddString("container", env.Container.String())
	if len(env.ContainerID) > 0 {
		enc.AddString("containerID", env.ContainerID)
	}
	return nil
}

// Field is the zap field the environment is logged with.
func (env Environment) Field() zap.Field {
	return zap.Object("env", env)
}

// Probe collects what it can, missing host details are left empty.
func Probe() Environment {
	env := Environment{
		GoVersion:  goruntime.Version(),
		GOMAXPROCS: goruntime.GOMAXPROCS(0),
		NumCPU:     goruntime.NumCPU(),
		Container:  DetectContainer(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		env.CPUModel = infos[0].ModelName
	}
	if info, err := host.Info(); err == nil {
		env.Platform = info.Platform + " " + info.PlatformVersion
		env.Kernel = info.KernelVersion
	}
	if env.Container != NoContainer {
		env.ContainerID = LoadContainerID()
	}
	return env
}

type ContainerKind uint8

const (
	NoContainer ContainerKind = iota
	Docker
	Kubernetes
)

func (kind ContainerKind) String() string {
	switch kind {
	case NoContainer:
		return "none"
	case Docker:
		return "docker"
	case Kubernetes:
		return "kubernetes"
	default:
	}
	return "unknown"
}
