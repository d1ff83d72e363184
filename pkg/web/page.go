package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Obstacle Detection</title>
<style>
body { background: #111; color: #ddd; font-family: monospace; margin: 1em; }
img { border: 1px solid #333; margin-right: 1em; max-width: 48%; }
#report { color: #f55; font-size: 1.2em; margin: .5em 0; }
button { margin-top: 1em; }
</style>
</head>
<body>
<h2>Obstacle Detection</h2>
<div id="report">connecting...</div>
<img id="overlay" alt="overlay"><img id="mask" alt="mask">
<div><button id="reset">Reset background</button> <button id="stop">Stop</button></div>
<script>
const base = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/";
function feed(topic, el) {
  const ws = new WebSocket(base + topic);
  ws.binaryType = "blob";
  ws.onmessage = (e) => {
    const old = el.src;
    el.src = URL.createObjectURL(e.data);
    if (old) URL.revokeObjectURL(old);
  };
}
feed("overlay", document.getElementById("overlay"));
feed("mask", document.getElementById("mask"));
const reports = new WebSocket(base + "reports");
reports.onmessage = (e) => {
  const s = JSON.parse(e.data);
  document.getElementById("report").textContent = "#" + s.seq + "  " + s.annotation.join("  ");
};
document.getElementById("reset").onclick = () => fetch("/api/reset", { method: "POST" });
document.getElementById("stop").onclick = () => fetch("/api/stop", { method: "POST" });
</script>
</body>
</html>
`
