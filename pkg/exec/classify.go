package exec

import (
	"sync"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// parser.Parser is not safe for concurrent use; pool instances instead of
// constructing one per statement.
var parserPool = sync.Pool{
	New: func() interface{} { return parser.New() },
}

// Classify infers the intent of a raw statement. Statements the parser cannot
// handle stay RAW; callers that know the intent should declare it instead.
func Classify(sqlText string) domain.QueryIntent {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)

	stmts, _, err := p.Parse(sqlText, "", "")
	if err != nil || len(stmts) == 0 {
		return domain.IntentRaw
	}

	switch stmt := stmts[0].(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return domain.IntentSelect
	case *ast.InsertStmt:
		if len(stmt.OnDuplicate) > 0 || stmt.IsReplace {
			return domain.IntentUpsert
		}
		return domain.IntentInsert
	case *ast.UpdateStmt:
		return domain.IntentUpdate
	case *ast.DeleteStmt:
		return domain.IntentDelete
	case *ast.ShowStmt:
		if stmt.Tp == ast.ShowTables {
			return domain.IntentShowTables
		}
		return domain.IntentRaw
	default:
		return domain.IntentRaw
	}
}
