package metrics

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Serve 在 addr 上提供 /debug/statsviz/ 运行时面板
func Serve(addr string) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
