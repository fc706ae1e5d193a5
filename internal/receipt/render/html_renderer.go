package render

import (
	"bytes"
	"html/template"
)

const receiptHTMLTemplate = `<!DOCTYPE html>
<html lang="th">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>ใบเสร็จรับเงินบริจาค</title>
  <link href="https://fonts.googleapis.com/css2?family=Sarabun:wght@300;400;600;700&display=swap" rel="stylesheet">
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: 'Sarabun', Arial, sans-serif;
      background: white;
      color: #333;
      line-height: 1.6;
    }
    .container {
      max-width: 794px;
      margin: 0 auto;
      padding: 40px;
    }
    .logo { text-align: center; margin-bottom: 20px; }
    .logo img { width: 120px; height: auto; }
    .header { text-align: center; margin-bottom: 30px; }
    .header h1 {
      font-size: 24px;
      font-weight: bold;
      color: #333;
      margin-bottom: 5px;
    }
    .header p { font-size: 16px; color: #333; }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 20px;
      border: 1px solid #333;
    }
    td { border: 1px solid #333; padding: 8px; }
    .table-header {
      background: #f8f8f8;
      font-weight: bold;
      width: 25%;
    }
    .section-title {
      font-size: 18px;
      margin: 20px 0 10px 0;
      font-weight: bold;
      border-bottom: 2px solid #333;
      padding-bottom: 5px;
    }
    .amount-table { border: 2px solid #333; margin-bottom: 10px; }
    .amount-header {
      background: #f0f8ff;
      font-weight: bold;
      text-align: center;
      font-size: 16px;
      padding: 15px;
    }
    .amount-value {
      text-align: center;
      font-size: 28px;
      font-weight: bold;
      color: #16a34a;
      padding: 20px;
    }
    .amount-words {
      text-align: center;
      font-size: 16px;
      padding: 10px;
      margin-bottom: 30px;
    }
    .signature {
      text-align: center;
      margin-top: 30px;
      margin-bottom: 20px;
    }
    .signature img { height: 60px; }
    .signature .signer-name { font-weight: bold; margin-top: 5px; }
    .signature .signer-title { font-size: 13px; color: #666; }
    .footer {
      border-top: 2px solid #333;
      padding-top: 15px;
      margin-top: 30px;
    }
    .footer .note {
      text-align: center;
      margin: 5px 0;
      font-size: 12px;
      color: #666;
    }
    .footer .thanks {
      text-align: center;
      margin: 5px 0;
      font-size: 14px;
      font-weight: bold;
    }
    .footer .timestamp {
      text-align: right;
      margin: 20px 0 0 0;
      color: #666;
      font-size: 10px;
    }
  </style>
</head>
<body>
  <div class="container">
    {{if .LogoDataURL}}
    <div class="logo">
      <img src="{{dataURL .LogoDataURL}}" alt="Logo" />
    </div>
    {{end}}

    <div class="header">
      <h1>ใบเสร็จรับเงินบริจาค</h1>
      <p>DONATION RECEIPT</p>
    </div>

    <table>
      <tr>
        <td class="table-header">เลขที่ใบเสร็จ</td>
        <td style="width:25%;">{{.Donation.ReceiptNo}}</td>
        <td class="table-header">วันที่ออกเอกสาร</td>
        <td style="width:25%;">{{thaiDate .Donation.CreatedAt}}</td>
      </tr>
      <tr>
        <td class="table-header">เวลา</td>
        <td>{{thaiTime .Donation.CreatedAt}}</td>
        <td class="table-header">สถานะ</td>
        <td style="color:#16a34a;font-weight:bold;">อนุมัติแล้ว</td>
      </tr>
    </table>

    <h2 class="section-title">ข้อมูลผู้บริจาค</h2>
    <table>
      <tr>
        <td class="table-header">ชื่อ-นามสกุล</td>
        <td style="width:75%;">{{.Donation.FullName}}</td>
      </tr>
      <tr>
        <td class="table-header">วันเกิด</td>
        <td>{{thaiDate .Donation.BirthDate}}</td>
      </tr>
      <tr>
        <td class="table-header">อีเมล</td>
        <td>{{.Donation.Email}}</td>
      </tr>
      <tr>
        <td class="table-header">เบอร์โทรศัพท์</td>
        <td>{{.Donation.Phone}}</td>
      </tr>
    </table>

    <h2 class="section-title">รายละเอียดการบริจาค</h2>
    <table class="amount-table">
      <tr>
        <td class="amount-header">จำนวนเงินที่บริจาค</td>
      </tr>
      <tr>
        <td class="amount-value">{{formatAmount .Donation.Amount}} บาท</td>
      </tr>
    </table>
    <p class="amount-words">( {{bahtText .Donation.Amount}} )</p>

    <div class="signature">
      {{if .Signer.ImageDataURL}}
      <img src="{{dataURL .Signer.ImageDataURL}}" alt="Signature" />
      {{if .Signer.Name}}<p class="signer-name">( {{.Signer.Name}} )</p>{{end}}
      {{if .Signer.Title}}<p class="signer-title">{{.Signer.Title}}</p>{{end}}
      {{else}}
      <p class="signer-title">เอกสารฉบับนี้ออกโดยระบบอัตโนมัติ</p>
      {{end}}
    </div>

    <div class="footer">
      <p class="note">ใบเสร็จฉบับนี้ออกโดยระบบอัตโนมัติ มีผลใช้งานโดยไม่ต้องลงลายมือชื่อ</p>
      <p class="note">กรุณาเก็บใบเสร็จนี้ไว้เป็นหลักฐานในการบริจาค</p>
      <div style="margin-top:20px;">
        <p class="thanks">ขอขอบพระคุณที่ท่านให้การสนับสนุนและร่วมบริจาค</p>
        <p class="thanks">ขอให้พระคุณอันยิ่งใหญ่จงมีแด่ท่าน</p>
      </div>
      <p class="timestamp">เอกสารออกโดยระบบเมื่อ {{thaiTimestamp .GeneratedAt}}</p>
    </div>
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"thaiDate":      formatThaiDate,
		"thaiTime":      formatThaiTime,
		"thaiTimestamp": formatThaiTimestamp,
		"formatAmount":  formatAmount,
		"bahtText":      BahtText,
		// Inline base64 images are trusted internal values; html/template
		// would otherwise refuse the data: scheme.
		"dataURL": func(s string) template.URL { return template.URL(s) },
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("receipt").Funcs(funcs).Parse(receiptHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input ReceiptInput) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}
