package scorer

import (
	"strings"
	"unicode"

	"fileranker/internal/ir"
)

// impliedKinds reads the declaration shapes suggested by the binary naming
// conventions of the observed class and method. Nil means no convention applies.
func impliedKinds(d ir.BinaryDescriptor) []ir.Kind {
	method := d.ObservedMethod.Name
	class := d.BinaryClassName

	switch {
	case strings.Contains(method, "_delegate$lambda$"):
		return []ir.Kind{ir.KindLambda, ir.KindPropertyDelegateAccessor}
	case strings.HasSuffix(method, "$delegate"):
		return []ir.Kind{ir.KindPropertyDelegateAccessor}
	case strings.Contains(method, "$lambda"), method == "invoke", isNumberedClass(class):
		return []ir.Kind{ir.KindLambda}
	case method == "<init>" || method == "<clinit>":
		if strings.HasSuffix(simpleClassName(class), "Kt") {
			return []ir.Kind{ir.KindFileFacade}
		}
		return []ir.Kind{ir.KindClass, ir.KindObject}
	case strings.HasSuffix(simpleClassName(class), "Kt"):
		return []ir.Kind{ir.KindFileFacade, ir.KindPropertyDelegateAccessor}
	}
	return nil
}

func simpleClassName(binary string) string {
	if i := strings.LastIndexAny(binary, ".$"); i >= 0 {
		return binary[i+1:]
	}
	return binary
}

// isNumberedClass reports names like Outer$foo$1 that the compiler gives to
// anonymous classes.
func isNumberedClass(binary string) bool {
	i := strings.LastIndex(binary, "$")
	if i < 0 || i == len(binary)-1 {
		return false
	}
	for _, r := range binary[i+1:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
