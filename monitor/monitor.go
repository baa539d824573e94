package monitor

import (
	"crypto/subtle"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxLogTail bounds how much of the log file /logs returns.
const maxLogTail = 256 << 10

// RegisterRoutes mounts /health, /metrics, /logs and /monitor. The log routes stay closed
// (401) while token is empty.
func RegisterRoutes(router *gin.Engine, token, logFile string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Volunteer intake API is running",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/logs", func(c *gin.Context) {
		if !tokenMatches(token, c.Query("token")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		logData, err := readTail(logFile, maxLogTail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})

	router.GET("/monitor", func(c *gin.Context) {
		if !tokenMatches(token, c.Query("token")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(monitorPage))
	})
}

func tokenMatches(expected, provided string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

func readTail(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > limit {
		if _, err := f.Seek(info.Size()-limit, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return io.ReadAll(f)
}

// The page reads its own ?token= and forwards it to /logs, so the token is never templated
// into markup.
const monitorPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Server Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      background: #1B120F;
      color: #F5F5DC;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 20px;
    }
    .container { max-width: 1200px; margin: 0 auto; }
    h1 { font-size: 2rem; font-weight: 300; letter-spacing: 4px; color: #D4AF37; margin-bottom: 2rem; }
    .card {
      background: #2D1B15;
      border: 1px solid rgba(212, 175, 55, 0.4);
      border-radius: 12px;
      padding: 1.5rem;
      margin-bottom: 2rem;
    }
    .logs-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 1rem; }
    #logs {
      background: rgba(0, 0, 0, 0.3);
      padding: 1.5rem;
      border-radius: 8px;
      max-height: 500px;
      overflow-y: auto;
      white-space: pre-wrap;
      font-family: 'Monaco', 'Consolas', monospace;
      font-size: 0.8rem;
      line-height: 1.6;
    }
    button {
      padding: 0.6rem 1.2rem;
      background: #D4AF37;
      color: #1B120F;
      border: none;
      border-radius: 4px;
      cursor: pointer;
      font-weight: 600;
    }
    button.paused { background: #8c6d1f; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Server Monitor</h1>
    <div class="card"><div id="status">Status: Checking...</div></div>
    <div class="card">
      <div class="logs-header">
        <div>Server Logs</div>
        <button onclick="toggleLive()" id="toggleBtn">Pause Live Logs</button>
      </div>
      <pre id="logs">Loading logs...</pre>
    </div>
  </div>
  <script>
    let liveLogs = true;
    const token = new URLSearchParams(window.location.search).get('token') || '';
    const logsElement = document.getElementById('logs');
    const statusElement = document.getElementById('status');
    const toggleBtn = document.getElementById('toggleBtn');

    function fetchStatus() {
      fetch('/health')
        .then(res => res.json())
        .then(data => { statusElement.textContent = 'Status: ' + (data.status === 'ok' ? 'Online' : 'Offline'); })
        .catch(() => { statusElement.textContent = 'Status: Offline'; });
    }

    function fetchLogs() {
      if (!liveLogs) return;
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => {
          logsElement.textContent = data;
          logsElement.scrollTop = logsElement.scrollHeight;
        });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      toggleBtn.textContent = liveLogs ? 'Pause Live Logs' : 'Resume Live Logs';
      toggleBtn.classList.toggle('paused', !liveLogs);
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`
