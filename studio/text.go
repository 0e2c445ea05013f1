package studio

// UI Text Constants
const (
	TextTitle        = "🎬 Your Movie Studio"
	TextNotConnected = "❌ Not connected to the studio server"
	TextNoMovie      = "You haven't created a movie yet!"

	TextFooterHome    = "1-5 switch page | R reset workspace | q quit"
	TextFooterEdit    = "1-5 switch page | q quit"
	TextFooterProcess = "↑/↓ move | space select | enter process | q quit"
	TextFooterCreate  = "←/→ fps | s subtitles | a audio | enter create | q quit"
	TextFooterWatch   = "1-5 switch page | q quit"
)
