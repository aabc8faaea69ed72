package render

// NotFoundPage is the branded page served when a preview id has no
// stored content, either never created or expired.
func NotFoundPage() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Preview Not Found - Snippetly</title>
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
        .error-container { max-width: 500px; margin: 0 auto; }
        h1 { color: #e74c3c; font-size: 3em; margin-bottom: 20px; }
        p { color: #666; font-size: 1.2em; margin-bottom: 30px; }
        a { color: #3498db; text-decoration: none; font-weight: bold; }
        a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <div class="error-container">
        <h1>404</h1>
        <p>This preview link does not exist or has expired.</p>
        <p>Preview links are kept for one year, then deleted automatically.</p>
        <a href="/">&larr; Back to the homepage to create a new preview</a>
    </div>
</body>
</html>`
}
