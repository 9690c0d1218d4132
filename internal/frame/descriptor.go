package frame

// methodArity counts the parameters of a JVM method descriptor such as
// "(ILjava/lang/String;[J)V".
func methodArity(desc string) (int, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return 0, fieldError("method.signature", "descriptor %q does not start with '('", desc)
	}

	arity := 0
	i := 1
	for i < len(desc) && desc[i] != ')' {
		for i < len(desc) && desc[i] == '[' {
			i++
		}
		if i >= len(desc) {
			break
		}
		switch desc[i] {
		case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
			i++
		case 'L':
			for i < len(desc) && desc[i] != ';' {
				i++
			}
			if i >= len(desc) {
				return 0, fieldError("method.signature", "unterminated class type in %q", desc)
			}
			i++
		default:
			return 0, fieldError("method.signature", "unexpected %q in %q", desc[i], desc)
		}
		arity++
	}
	if i >= len(desc) {
		return 0, fieldError("method.signature", "descriptor %q has no ')'", desc)
	}
	if i+1 >= len(desc) {
		return 0, fieldError("method.signature", "descriptor %q has no return type", desc)
	}
	return arity, nil
}
