//go:build linux
// +build linux

package runtime

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// Kubernetes mounts the service account namespace into every pod.
// Docker creates /.dockerenv, but it is unstable. A container has no
// block devices by default, so a missing /dev/block is checked as well.
const (
	dockerEnvPath                = "/.dockerenv"
	dockerBlockPath              = "/dev/block"
	kubernetesServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"
)

func DetectContainer() ContainerKind {
	return detectContainer(os.Stat)
}

func detectContainer(stat func(string) (os.FileInfo, error)) ContainerKind {
	if info, err := stat(kubernetesServiceAccountPath); err == nil && !info.IsDir() && info.Size() > 0 {
		return Kubernetes
	}
	if info, err := stat(dockerEnvPath); err == nil {
		if !info.IsDir() {
			return Docker
		}
		return NoContainer
	}
	if _, err := stat(dockerBlockPath); os.IsNotExist(err) {
		return Docker
	}
	return NoContainer
}

const (
	uuidSource      = "[0-9a-f]{8}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{12}|[0-9a-f]{8}(?:-[0-9a-f]{4}){4}$"
	containerSource = "[0-9a-f]{64}"
	taskSource      = "[0-9a-f]{32}-\\d+"
)

var (
	// 0::/kubepods.slice/kubepods-besteffort.slice/kubepods-besteffort-pode6ac4a8d_1076_453e_9ddb_3976520e3178.slice/cri-containerd-19cd7a809d879d9c855bb93e4d399efe795a769ac856faaa5256cdd8387fe4b1.scope
	cgroupLineRegex  = regexp.MustCompile(`^\d+:[^:]*:(.+)$`)
	containerIDRegex = regexp.MustCompile(fmt.Sprintf(`(%s|%s|%s)(?:.scope)?$`, uuidSource, containerSource, taskSource))
)

// parseContainerID scans /proc/self/cgroup formatted lines and returns
// the first id found.
func parseContainerID(r io.Reader) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		path := cgroupLineRegex.FindStringSubmatch(scanner.Text())
		if len(path) != 2 {
			continue
		}
		if parts := containerIDRegex.FindStringSubmatch(path[1]); len(parts) == 2 {
			return parts[1], true
		}
	}
	return "", false
}

func LoadContainerID() string {
	f, err := os.Open("/proc/self/cgroup")
	if err != nil {
		return ""
	}
	defer func() {
		_ = f.Close()
	}()
	id, _ := parseContainerID(f)
	return id
}
