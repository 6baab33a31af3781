package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"
)

// runPipeline is the main loop that feeds camera frames through pose
// estimation into punch detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion, switch to active mode (ActiveFPS)
// 3. Mirror the frame so handedness matches what the boxer sees
// 4. Run pose estimation and punch/combo processing
// 5. After IdleTimeout without motion, drop back to idle mode
// Calibration runs regardless of motion so the prepare stage can
// elapse while the boxer stands still.
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Mirror the frame; the tracker's forward directions
			// assume a mirrored view.
			mirrored := gocv.NewMat()
			gocv.Flip(*frame, &mirrored, 1)
			frame.Close()

			motionDetected, _ := a.motion.Detect(&mirrored)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode && !a.Calibrating() {
				mirrored.Close()
				continue
			}

			source := a.Source()
			if source == nil {
				mirrored.Close()
				continue
			}

			p, err := source.Detect(&mirrored)
			mirrored.Close()

			if err != nil {
				log.Printf("Error estimating pose: %v", err)
				continue
			}

			a.ProcessPose(p, time.Now())
		}
	}
}
