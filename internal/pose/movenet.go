package pose

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MoveNetSource implements Source using a Python MoveNet subprocess.
// Frames are streamed as length-prefixed JPEGs on stdin; the service
// answers one JSON line per frame.
type MoveNetSource struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMoveNetSource creates a new MoveNet pose source.
// The Python process is started lazily on first detection.
func NewMoveNetSource(config Config) (*MoveNetSource, error) {
	scriptPath := findMoveNetScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("movenet_service.py not found")
	}

	return &MoveNetSource{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the detected pose, or nil when
// no person is visible.
func (s *MoveNetSource) Detect(frame *gocv.Mat) (*Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := s.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := s.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Keypoints []jsonKeypoint `json:"keypoints"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	s.lastUsed = time.Now()
	s.resetIdleTimer()

	if len(response.Keypoints) == 0 {
		return nil, nil
	}

	pose := &Pose{}
	for i, kp := range response.Keypoints {
		if i >= NumKeypoints {
			break
		}
		// The service reports every landmark; filter by confidence
		// here so absent keypoints stay nil.
		if kp.Confidence >= s.config.MinConfidence {
			pose.Set(i, kp.X, kp.Y, kp.Confidence)
		}
	}
	return pose, nil
}

// Close shuts down the Python process.
func (s *MoveNetSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

func (s *MoveNetSource) ensureStarted() error {
	if s.started {
		return nil
	}

	scriptPath := findMoveNetScript()
	if scriptPath == "" {
		return fmt.Errorf("movenet_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	s.cmd = exec.Command(pythonPath, scriptPath, "--model", s.config.ModelType)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start movenet service: %w", err)
	}

	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.started = true
	s.lastUsed = time.Now()

	return nil
}

func (s *MoveNetSource) shutdown() error {
	if !s.started {
		return nil
	}

	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}

	if s.stdin != nil {
		s.stdin.Close()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil

	return err
}

func (s *MoveNetSource) resetIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(30*time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.shutdown()
	})
}

func findMoveNetScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/movenet_service.py",
		"../scripts/movenet_service.py",
		filepath.Join(execDir, "scripts/movenet_service.py"),
		filepath.Join(os.Getenv("HOME"), ".punchtrack/scripts/movenet_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".punchtrack/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonKeypoint represents one landmark in the JSON structure from the
// Python service.
type jsonKeypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}
