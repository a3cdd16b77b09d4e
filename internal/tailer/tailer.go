package tailer

import (
	"fmt"
	"log"

	"github.com/nxadm/tail"
)

// Follow tails the access log and sends complete lines to the channel.
// The log must already exist: an unreadable or missing log is fatal to the
// run, matching the batch commands. Rotation reopens transparently.
func Follow(path string, lines chan<- string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      true, // safer on bind mounts and network filesystems
	})
	if err != nil {
		return fmt.Errorf("tail %s: %w", path, err)
	}

	go func() {
		defer close(lines)
		for line := range t.Lines {
			if line.Err != nil {
				log.Printf("tailer: %s: %v", path, line.Err)
				continue
			}
			lines <- line.Text
		}
	}()
	return nil
}
