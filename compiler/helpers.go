package compiler

import (
	"strings"
	"unicode"
)

// pascalCase joins the words of a snake_case or kebab-case name as PascalCase.
// Names that already start with an uppercase letter are returned unchanged.
func pascalCase(name string) string {
	if name == "" || unicode.IsUpper(rune(name[0])) {
		return name
	}
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

// setterName maps a property name to the setter method it calls.
// "title" and "set_title" become "SetTitle"; "SetTitle" and "Append" are kept as written.
func setterName(prop string) string {
	if prop != "" && unicode.IsUpper(rune(prop[0])) {
		return prop
	}
	return "Set" + pascalCase(strings.TrimPrefix(prop, "set_"))
}

// connectName maps a signal name to the method that connects it.
// "clicked", "connect_clicked" and "close-request" become "ConnectClicked" and "ConnectCloseRequest".
func connectName(signal string) string {
	if signal != "" && unicode.IsUpper(rune(signal[0])) {
		return signal
	}
	return "Connect" + pascalCase(strings.TrimPrefix(signal, "connect_"))
}

// defaultConstructor derives the conventional constructor call for a widget
// type: "*gtk.Window" becomes "gtk.NewWindow()" and "Label" becomes "NewLabel()".
func defaultConstructor(typ string) string {
	base := strings.TrimLeft(typ, "*")
	if i := strings.IndexByte(base, '['); i >= 0 {
		// Drop type arguments; generic constructors must be spelled out.
		base = base[:i]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i+1] + "New" + base[i+1:] + "()"
	}
	return "New" + base + "()"
}

// indentBody indents every non-empty line of a multi-line body by one tab,
// trimming surrounding blank lines.
func indentBody(body string) string {
	body = strings.Trim(body, "\n")
	if strings.TrimSpace(body) == "" {
		return ""
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "\t" + strings.TrimRight(line, " \t")
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
