package portal

import (
	"strings"
)

// defaultLanding is served while no custom landing page is stored.
const defaultLanding = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%SITE_NAME%</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;color:#333;line-height:1.6;padding:20px}
.card{max-width:560px;margin:0 auto;background:#fff;border-radius:8px;padding:20px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
h1{font-size:22px;margin-bottom:12px}
.msg-form{display:flex;gap:8px;margin:12px 0}
.msg-form input{flex:1;padding:8px 12px;border:1px solid #ddd;border-radius:6px;font-size:14px}
.msg-form button{padding:8px 16px;border:none;border-radius:6px;background:#667eea;color:#fff;font-size:14px;cursor:pointer}
.wall{max-height:320px;overflow-y:auto;border-top:1px solid #eee;padding-top:8px}
.wall-entry{padding:4px 0;border-bottom:1px solid #f0f0f0;font-size:14px;word-wrap:break-word}
.wall-time{color:#888;font-family:monospace;margin-right:6px}
</style>
</head>
<body>
<div class="card">
<h1>Welcome to %SITE_NAME%</h1>
<p>You are connected. Say hi to everyone else on this network.</p>
%MESSAGE_SECTION%
</div>
<script>
(function(){
  if(!window.WebSocket){return}
  var ws=new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+'/wall/ws');
  ws.onmessage=function(ev){
    var f;try{f=JSON.parse(ev.data)}catch(e){return}
    var wall=document.getElementById('wall');
    if(!wall){
      var sec=document.querySelector('.msg-section');if(!sec){return}
      wall=document.createElement('div');wall.id='wall';wall.className='wall';sec.appendChild(wall);
    }
    var row=document.createElement('div');row.className='wall-entry';
    var ts=document.createElement('span');ts.className='wall-time';ts.textContent=f.time;
    var tx=document.createElement('span');tx.className='wall-text';tx.textContent=f.text;
    row.appendChild(ts);row.appendChild(tx);wall.insertBefore(row,wall.firstChild);
  };
})();
</script>
</body>
</html>
`

const messageForm = `<form class="msg-form" method="POST" action="/submit-message">` +
	`<input type="text" name="msg" maxlength="200" placeholder="Leave a message" required>` +
	`<button type="submit">Send</button>` +
	`</form>`

// buildMessageSection renders the submission form followed, when entries is non-empty,
// by the wall in stored (newest first) order.
func buildMessageSection(entries []string) string {
	var b strings.Builder
	b.WriteString(`<div class="msg-section">`)
	b.WriteString(messageForm)
	if len(entries) > 0 {
		b.WriteString(`<div class="wall" id="wall">`)
		for _, entry := range entries {
			stamp, text, ok := strings.Cut(entry, "|")
			if !ok {
				stamp, text = "", entry
			}
			b.WriteString(`<div class="wall-entry"><span class="wall-time">`)
			b.WriteString(Escape(stamp))
			b.WriteString(`</span><span class="wall-text">`)
			b.WriteString(Escape(text))
			b.WriteString(`</span></div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
