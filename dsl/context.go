package dsl

import (
	"sync"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/i18n"
)

// parseCtx carries the mutable traversal state of one parse: the current
// path and the accumulated issues. Instances are pooled; a parse must not
// retain the context past release.
type parseCtx struct {
	path     []any
	issues   kensa.Issues
	failFast bool
}

var ctxPool = sync.Pool{
	New: func() any {
		return &parseCtx{path: make([]any, 0, 8)}
	},
}

func acquireCtx(failFast bool) *parseCtx {
	vc := ctxPool.Get().(*parseCtx)
	vc.path = vc.path[:0]
	vc.issues = vc.issues[:0]
	vc.failFast = failFast
	return vc
}

func releaseCtx(vc *parseCtx) {
	if cap(vc.issues) > 1024 {
		vc.issues = nil
	}
	ctxPool.Put(vc)
}

func (vc *parseCtx) push(seg any) { vc.path = append(vc.path, seg) }
func (vc *parseCtx) pop()         { vc.path = vc.path[:len(vc.path)-1] }

// add records an issue at the current path. The path is snapshotted so later
// traversal does not mutate recorded issues.
func (vc *parseCtx) add(code string, params map[string]any) {
	vc.issues = append(vc.issues, kensa.Issue{
		Code:    code,
		Path:    append(kensa.Path(nil), vc.path...),
		Message: i18n.T(code, params),
		Params:  params,
	})
}

// addMsg records an issue with an explicit message, bypassing translation.
func (vc *parseCtx) addMsg(code, msg string, params map[string]any) {
	if msg == "" {
		msg = i18n.T(code, params)
	}
	vc.issues = append(vc.issues, kensa.Issue{
		Code:    code,
		Path:    append(kensa.Path(nil), vc.path...),
		Message: msg,
		Params:  params,
	})
}
