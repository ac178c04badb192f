// framefeeder pushes a directory of JPEG frames into a running session's
// websocket, standing in for a browser camera during manual testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := flag.String("addr", "localhost:8080", "server host:port")
	session := flag.String("session", "", "session ID to feed")
	dir := flag.String("dir", "", "directory of .jpg/.jpeg frames")
	interval := flag.Duration("interval", 3*time.Second, "delay between frames")
	loop := flag.Bool("loop", false, "restart from the first frame after the last")
	flag.Parse()

	if *session == "" || *dir == "" {
		flag.Usage()
		log.Fatal("both -session and -dir are required")
	}

	frames, err := listFrames(*dir)
	if err != nil {
		log.Fatalf("failed to list frames: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("no .jpg/.jpeg files in %s", *dir)
	}

	url := fmt.Sprintf("ws://%s/api/sessions/%s/frames", *addr, *session)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", url, err)
	}
	defer conn.Close()

	log.Printf("connected to %s, feeding %d frames every %v", url, len(frames), *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sent := 0
	for i := 0; ; i++ {
		if i >= len(frames) {
			if !*loop {
				break
			}
			i = 0
		}

		data, err := os.ReadFile(frames[i])
		if err != nil {
			log.Printf("skipping %s: %v", frames[i], err)
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Fatalf("failed to send frame: %v", err)
		}
		sent++
		log.Printf("sent %s (%d bytes)", filepath.Base(frames[i]), len(data))
		<-ticker.C
	}

	log.Printf("done, sent %d frames", sent)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" {
			frames = append(frames, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(frames)
	return frames, nil
}
