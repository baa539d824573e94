package services

import (
	"fmt"
	"html/template"
	"strings"
)

// Field is one labelled row in the details table of a notification.
type Field struct {
	Label string
	Value string
	Quote bool // render as an italic quotation (free-text answers)
}

// Branding is the organisation identity stamped on every message and page.
type Branding struct {
	OrgName string
	Motto   string
	LogoURL string
}

const emptyFieldValue = "N/A"

var basicHTMLReplacer = strings.NewReplacer(
	"&lt;strong&gt;", "<strong>",
	"&lt;/strong&gt;", "</strong>",
)

// buildEmailTemplate renders the gold-on-brown layout used for all outbound mail. Every
// caller-supplied string is escaped; paragraphs may use <strong> only.
func buildEmailTemplate(b Branding, heading, subheading string, paragraphs []string, fields []Field, buttonText, buttonURL string) string {
	var contentBuilder strings.Builder
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\r", "\n")
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
		escaped = basicHTMLReplacer.Replace(escaped)
		contentBuilder.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;text-align:left;word-break:break-word;">`)
		contentBuilder.WriteString(escaped)
		contentBuilder.WriteString(`</p>`)
	}

	fieldSection := ""
	if len(fields) > 0 {
		var fb strings.Builder
		fb.WriteString(`<table role="presentation" style="width:100%;text-align:left;border-collapse:collapse;font-size:13px;line-height:1.6;">
<tbody>`)
		for _, f := range fields {
			label := strings.TrimSpace(f.Label)
			if label == "" {
				continue
			}
			value := strings.TrimSpace(f.Value)
			if value == "" {
				value = emptyFieldValue
			}
			escapedValue := template.HTMLEscapeString(value)
			valueStyle := "padding:12px 0;border-bottom:1px solid rgba(212,175,55,0.2);word-break:break-word;white-space:pre-wrap;"
			if f.Quote {
				escapedValue = "&quot;" + escapedValue + "&quot;"
				valueStyle += "font-style:italic;opacity:0.9;"
			}
			fb.WriteString(fmt.Sprintf(`<tr>
<td style="padding:12px 0;border-bottom:1px solid rgba(212,175,55,0.2);color:#D4AF37;font-size:10px;letter-spacing:1px;width:40%%;vertical-align:top;"><strong>%s</strong></td>
<td style="%s">%s</td>
</tr>
`, template.HTMLEscapeString(strings.ToUpper(label)), valueStyle, escapedValue))
		}
		fb.WriteString(`</tbody>
</table>`)
		fieldSection = fb.String()
	}

	buttonSection := ""
	if strings.TrimSpace(buttonText) != "" && strings.TrimSpace(buttonURL) != "" {
		buttonSection = fmt.Sprintf(`<div style="margin-top:50px;padding-top:30px;border-top:1px solid rgba(212,175,55,0.1);">
<a href="%s" style="background-color:#D4AF37;color:#1B120F;padding:18px 35px;text-decoration:none;font-size:12px;letter-spacing:3px;text-transform:uppercase;font-weight:bold;border-radius:2px;display:inline-block;">%s</a>
</div>`, template.HTMLEscapeString(buttonURL), template.HTMLEscapeString(buttonText))
	}

	subheadingSection := ""
	if strings.TrimSpace(subheading) != "" {
		subheadingSection = fmt.Sprintf(`<h2 style="font-weight:300;letter-spacing:3px;font-size:12px;text-transform:uppercase;margin:0 0 40px 0;opacity:0.8;">%s</h2>`,
			template.HTMLEscapeString(subheading))
	}

	footer := template.HTMLEscapeString(b.OrgName)
	if strings.TrimSpace(b.Motto) != "" {
		footer += " &bull; " + template.HTMLEscapeString(b.Motto)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;">
<div style="background-color:#1B120F;padding:40px;font-family:'Montserrat',Helvetica,Arial,sans-serif;text-align:center;color:#F5F5DC;">
<div style="max-width:600px;margin:0 auto;border:1px solid #D4AF37;padding:50px;background-color:#2D1B15;">
%s
<h1 style="font-weight:100;letter-spacing:6px;text-transform:uppercase;color:#D4AF37;margin:0 0 10px 0;font-size:20px;">%s</h1>
<div style="height:1px;width:60px;background:linear-gradient(90deg,transparent,#D4AF37,transparent);margin:20px auto;"></div>
%s
%s
%s
%s
<div style="margin-top:60px;font-size:9px;letter-spacing:3px;opacity:0.4;text-transform:uppercase;">%s</div>
</div>
</div>
</body>
</html>`,
		template.HTMLEscapeString(heading),
		renderLogos(b.LogoURL, b.OrgName),
		template.HTMLEscapeString(heading),
		subheadingSection,
		contentBuilder.String(),
		fieldSection,
		buttonSection,
		footer,
	)
}
