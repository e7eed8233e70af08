// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// renderXML renders the error document. Messages and traces are wrapped in
// CDATA sections; other values are escaped.
func (cfg *config) renderXML(err error) string {
	var b strings.Builder

	b.WriteString("<error>\n  <message>")
	writeXMLText(&b, cfg.title)
	b.WriteString("</message>\n")

	if cfg.displayDetails {
		for _, rec := range Chain(err) {
			b.WriteString("  <error>\n")
			b.WriteString("    <type>")
			writeXMLText(&b, rec.Type)
			b.WriteString("</type>\n")
			b.WriteString("    <code>")
			b.WriteString(strconv.Itoa(rec.Code))
			b.WriteString("</code>\n")
			b.WriteString("    <message>")
			b.WriteString(cdata(rec.Message))
			b.WriteString("</message>\n")
			b.WriteString("    <file>")
			writeXMLText(&b, rec.File)
			b.WriteString("</file>\n")
			b.WriteString("    <line>")
			b.WriteString(strconv.Itoa(rec.Line))
			b.WriteString("</line>\n")
			b.WriteString("    <trace>")
			b.WriteString(cdata(rec.Trace))
			b.WriteString("</trace>\n")
			b.WriteString("  </error>\n")
		}
	}

	b.WriteString("</error>")

	return b.String()
}

// renderNotAllowedXML renders the 405 document.
func renderNotAllowedXML(allow string) string {
	var b strings.Builder

	b.WriteString("<root><message>Method not allowed. Must be one of: ")
	writeXMLText(&b, allow)
	b.WriteString("</message></root>")

	return b.String()
}

// cdata wraps content in a CDATA section. Every "]]>" inside content is split
// across two sections so it cannot end the section early.
func cdata(content string) string {
	return "<![CDATA[" + strings.ReplaceAll(content, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// writeXMLText writes s with XML character escaping. Writes to a
// strings.Builder cannot fail.
func writeXMLText(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
