package pages

import "fmt"

const layout = `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        pre {
            white-space: pre-wrap;
            word-wrap: break-word;
        }
    </style>
</head>
<body>
    <h1>%[1]s</h1>
    <pre>%[2]s</pre>
</body>
</html>`

const privacyText = `songbot does not store any data.

When you use /music or Get Songs, the links in your command or in the
selected message are sent to the Odesli API (https://odesli.co) to find the
same song on other platforms. Odesli's own privacy policy applies to that
request. Nothing else about you, your messages or your server leaves Discord.

Errors may be reported to our error tracker together with the command name,
the server ID and your user ID, so that we can fix them. These reports are
deleted after 90 days.`

const termsText = `songbot is provided as is, without any warranty.

Song information and links come from Odesli (https://odesli.co) and the
streaming platforms it covers. We are not responsible for their accuracy or
availability.

Do not use songbot to spam channels or to abuse the Odesli API. We may block
servers or users that do.`

// PrivacyPolicy is served on /privacy.
func PrivacyPolicy() string {
	return render("Privacy Policy", privacyText)
}

// TermsOfService is served on /terms.
func TermsOfService() string {
	return render("Terms of Service", termsText)
}

func render(title, body string) string {
	return fmt.Sprintf(layout, title, body)
}
