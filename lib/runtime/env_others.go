//go:build !linux
// +build !linux

package runtime

func DetectContainer() ContainerKind { return NoContainer }

func LoadContainerID() string { return "" }
