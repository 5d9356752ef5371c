package compile

import (
	"os/exec"
	"runtime"
)

// Opener shows an exported file to the user
type Opener interface {
	// Open launches viewer, or the system default when viewer is empty
	Open(path, viewer string) error
}

// SystemOpener starts the viewer as a detached process
type SystemOpener struct{}

func (SystemOpener) Open(path, viewer string) error {
	cmd := openCommand(runtime.GOOS, path, viewer)
	return cmd.Start()
}

func openCommand(goos, path, viewer string) *exec.Cmd {
	if viewer != "" {
		if goos == "darwin" {
			return exec.Command("open", "-a", viewer, path)
		}
		return exec.Command(viewer, path)
	}
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	}
	return exec.Command("xdg-open", path)
}
