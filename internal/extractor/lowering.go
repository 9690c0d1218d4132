package extractor

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Naming rules for how Kotlin declarations surface in JVM class files.

// qualify joins an outer binary name and a simple name.
// Top-level names are joined to the package with '.', nested ones with '$'.
func qualify(pkg, outer, name string) string {
	if outer != "" {
		return outer + "$" + name
	}
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// FacadeClassName is the binary name of the class holding a file's top-level declarations.
func FacadeClassName(pkg, path, jvmName string) string {
	if jvmName != "" {
		return qualify(pkg, "", jvmName)
	}
	return qualify(pkg, "", facadeSimpleName(path))
}

func facadeSimpleName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "_"
	}

	var sb strings.Builder
	for i, r := range base {
		switch {
		case unicode.IsLetter(r) || r == '_' || r == '$':
			sb.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return capitalize(sb.String()) + "Kt"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// getterName follows the JavaBeans-style rule Kotlin uses for property accessors.
func getterName(property string) string {
	if isPrefixedBoolean(property) {
		return property
	}
	return "get" + capitalize(property)
}

func setterName(property string) string {
	if isPrefixedBoolean(property) {
		return "set" + property[2:]
	}
	return "set" + capitalize(property)
}

func isPrefixedBoolean(name string) bool {
	if !strings.HasPrefix(name, "is") || len(name) < 3 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[2:])
	return unicode.IsUpper(r)
}

// lambdaClassName is the class-per-lambda name: Outer$callable$N.
func lambdaClassName(owner string, ordinal int) string {
	return owner + "$" + strconv.Itoa(ordinal)
}

// lambdaMethodName is the invokedynamic-style synthetic method: callable$lambda$K.
func lambdaMethodName(prefix string, ordinal int) string {
	return prefix + "$lambda$" + strconv.Itoa(ordinal)
}

// delegateAccessorName is the synthetic static getter exposing a property's delegate.
func delegateAccessorName(property string) string {
	return getterName(property) + "$delegate"
}

// localFunctionName is the host method a local function compiles to: callable$name.
func localFunctionName(callable, name string) string {
	return callable + "$" + name
}

// delegateLambdaPrefix names lambdas created inside a delegate expression.
func delegateLambdaPrefix(property string) string {
	return property + "_delegate"
}

const (
	constructorName       = "<init>"
	staticInitializerName = "<clinit>"
	defaultSuffix         = "$default"
	initLambdaPrefix      = "_init_"
)
