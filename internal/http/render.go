package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// staticFiles serves the embedded default images under /static.
func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// messageItem is the context of the "message_item" partial.
type messageItem struct {
	Msg     domain.Message
	CanLike bool
	Liked   bool
}

var templateFuncs = template.FuncMap{
	"item": func(m domain.Message, viewer *domain.User, liked map[int64]bool) messageItem {
		return messageItem{Msg: m, CanLike: viewer != nil, Liked: liked[m.ID]}
	},
}

func mustParseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// render executes a page template with the fields every page needs.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = currentUser(c)
	data["Flashes"] = h.sessions.popFlashes(c)
	c.HTML(status, name, data)
}
