package plugin

import (
	"reflect"

	"github.com/johnchase/qiime2/internal/transform"
	"github.com/johnchase/qiime2/internal/validate"
)

var intsType = reflect.TypeFor[[]int]()

func transformViewID(r validate.Record) string {
	return transform.ViewID(r.View())
}
