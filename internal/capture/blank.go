package capture

import (
	"context"
	"fmt"
	"os"
)

// blankCapturer writes an empty frame file so the pipeline's file-existence
// contract holds even when no image-producing capability is available.
type blankCapturer struct{}

func (blankCapturer) Name() string { return "blank" }

func (blankCapturer) Capture(_ context.Context, seq int, path string) error {
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("blank frame %d: %w", seq, err)
	}
	return nil
}
