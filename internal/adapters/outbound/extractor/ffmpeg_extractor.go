package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
)

var inputExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
	"audio/mpeg":      ".mp3",
	"audio/mp4":       ".m4a",
	"audio/wav":       ".wav",
}

// FFmpegExtractor shells out to ffmpeg/ffprobe for audio and frame
// extraction. Inputs arrive as raw bytes and are staged in a per-call temp
// directory that is always removed.
type FFmpegExtractor struct {
	tempDir string
}

func NewFFmpegExtractor(tempDir string) *FFmpegExtractor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegExtractor{tempDir: tempDir}
}

// ExtractAudio demuxes the audio track of a video container into mp3 bytes
// suitable for transcription.
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	dir, inputPath, err := e.stageInput(data, mimeType)
	if err != nil {
		return nil, &domain.ExtractionError{Stage: domain.StageExtractingAudio, Err: err}
	}
	defer os.RemoveAll(dir)

	outputPath := filepath.Join(dir, "audio.mp3")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(output), "does not contain any stream") {
			return nil, &domain.ExtractionError{
				Stage: domain.StageExtractingAudio,
				Err:   errors.New("container has no audio track"),
			}
		}
		return nil, &domain.ExtractionError{
			Stage: domain.StageExtractingAudio,
			Err:   fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output)),
		}
	}

	audio, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, &domain.ExtractionError{Stage: domain.StageExtractingAudio, Err: err}
	}
	if len(audio) == 0 {
		return nil, &domain.ExtractionError{
			Stage: domain.StageExtractingAudio,
			Err:   errors.New("empty audio track"),
		}
	}
	return audio, nil
}

// ExtractFrames samples count JPEG stills evenly across the video's
// duration, seeking to the midpoint of each equal slice.
func (e *FFmpegExtractor) ExtractFrames(ctx context.Context, data []byte, mimeType string, count int) ([][]byte, error) {
	if count <= 0 {
		count = 1
	}

	dir, inputPath, err := e.stageInput(data, mimeType)
	if err != nil {
		return nil, &domain.ExtractionError{Stage: domain.StageExtractingFrames, Err: err}
	}
	defer os.RemoveAll(dir)

	duration, err := probeDuration(ctx, inputPath)
	if err != nil {
		return nil, &domain.ExtractionError{
			Stage: domain.StageExtractingFrames,
			Err:   fmt.Errorf("unreadable video: %w", err),
		}
	}

	frames := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		offset := duration * (2*float64(i) + 1) / (2 * float64(count))
		framePath := filepath.Join(dir, fmt.Sprintf("frame_%04d.jpg", i))

		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-ss", fmt.Sprintf("%.3f", offset),
			"-i", inputPath,
			"-frames:v", "1",
			"-q:v", "3",
			"-y",
			framePath,
		)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return nil, &domain.ExtractionError{
				Stage: domain.StageExtractingFrames,
				Err:   fmt.Errorf("ffmpeg error at %.1fs: %w, output: %s", offset, err, string(output)),
			}
		}

		frame, err := os.ReadFile(framePath)
		if err != nil || len(frame) == 0 {
			return nil, &domain.ExtractionError{
				Stage: domain.StageExtractingFrames,
				Err:   fmt.Errorf("no frame decoded at %.1fs", offset),
			}
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

func (e *FFmpegExtractor) stageInput(data []byte, mimeType string) (dir string, inputPath string, err error) {
	if len(data) == 0 {
		return "", "", errors.New("empty input")
	}

	dir, err = os.MkdirTemp(e.tempDir, "extract_")
	if err != nil {
		return "", "", err
	}

	ext := inputExtensions[mimeType]
	if ext == "" {
		ext = ".bin"
	}
	inputPath = filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(inputPath, data, 0644); err != nil {
		os.RemoveAll(dir)
		return "", "", err
	}
	return dir, inputPath, nil
}

func probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(string(bytes.TrimSpace(output)), 64)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("invalid duration %q", bytes.TrimSpace(output))
	}
	return duration, nil
}
