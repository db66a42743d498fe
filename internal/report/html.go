package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// humanize formats an amount with thousands separators and two decimals.
func humanize(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 && r != '-' && whole[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + frac
}

// HTMLData is everything the HTML report template needs.
type HTMLData struct {
	Client    string
	Generated string
	Summary   Summary
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(v float64) string {
		return "$" + humanize(v)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Denial Recovery Audit{{if .Client}} - {{.Client}}{{end}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; background: #f5f6f8; color: #1c2733; }
.wrap { max-width: 960px; margin: 0 auto; padding: 32px 24px; }
.hero { background: #0b3d62; color: #fff; border-radius: 10px; padding: 28px 32px; }
.hero h1 { margin: 0 0 4px; font-size: 22px; font-weight: 600; }
.hero .sub { color: #a9c3d8; font-size: 13px; }
.hero .figure { font-size: 40px; font-weight: 700; margin-top: 16px; }
.hero .figure-label { font-size: 13px; color: #a9c3d8; }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 14px; margin: 22px 0; }
.card { background: #fff; border-radius: 8px; padding: 16px 18px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card .label { font-size: 12px; color: #68798a; text-transform: uppercase; letter-spacing: .04em; }
.card .value { font-size: 22px; font-weight: 600; margin-top: 6px; }
.card .count { font-size: 12px; color: #68798a; margin-top: 2px; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
th { text-align: left; font-size: 12px; text-transform: uppercase; letter-spacing: .04em; color: #68798a; padding: 12px 14px; border-bottom: 1px solid #e4e8ec; }
td { padding: 11px 14px; border-bottom: 1px solid #eef1f4; font-size: 14px; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.footer { margin-top: 24px; font-size: 12px; color: #8a97a5; }
</style>
</head>
<body>
<div class="wrap">
  <div class="hero">
    <h1>Denial Recovery Audit{{if .Client}} &mdash; {{.Client}}{{end}}</h1>
    <div class="sub">{{.Summary.Records}} denials analyzed &middot; generated {{.Generated}}</div>
    <div class="figure">{{money .Summary.Recoverable}}</div>
    <div class="figure-label">estimated recoverable of {{money .Summary.TotalDenied}} total denied</div>
  </div>

  <div class="grid">
  {{range .Summary.Statuses}}
    <div class="card">
      <div class="label">{{.Label}}</div>
      <div class="value">{{money .Amount}}</div>
      <div class="count">{{.Count}} denials</div>
    </div>
  {{end}}
  </div>

  <table>
    <tr><th>Code</th><th>Description</th><th>Status</th><th>Count</th><th>Denied</th></tr>
  {{range .Summary.TopCodes}}
    <tr>
      <td>{{.Code}}</td>
      <td>{{.Description}}</td>
      <td>{{.Status.Label}}</td>
      <td class="num">{{.Count}}</td>
      <td class="num">{{money .Amount}}</td>
    </tr>
  {{end}}
  </table>

  <div class="footer">Figures reflect payer-reported adjustment amounts and curated recoverability classifications. Review-required items are excluded from the recoverable estimate.</div>
</div>
</body>
</html>
`))

// WriteHTML renders the audit report page.
func WriteHTML(w io.Writer, client string, s Summary) error {
	data := HTMLData{
		Client:    client,
		Generated: time.Now().Format("Jan 2, 2006 15:04 MST"),
		Summary:   s,
	}
	return eris.Wrap(reportTmpl.Execute(w, data), "report: render html")
}
