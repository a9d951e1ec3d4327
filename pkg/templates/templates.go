// Package templates holds the canned buffers offered on the start page.
package templates

import (
	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// Template kinds
const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	HTML       = "html"
	CSS        = "css"
	Python     = "python"
	JSON       = "json"
	Markdown   = "markdown"
)

// Kinds lists the template kinds in start-page order.
var Kinds = []string{JavaScript, TypeScript, HTML, CSS, Python, JSON, Markdown}

// Welcome is the buffer shown when the editor opens without a template or file.
var Welcome = models.Template{
	Kind:          "welcome",
	Content:       "// Welcome to SourcePad!\n// Start typing your code here...",
	Language:      "javascript",
	FileExtension: "js",
}

const bt = "`"

var catalog = map[string]models.Template{
	JavaScript: {
		Content: `// JavaScript File
console.log('Hello, SourcePad!');

function greet(name) {
    return ` + bt + `Hello, ${name}!` + bt + `;
}

// Your code here...`,
		Language:      "javascript",
		FileExtension: "js",
	},
	TypeScript: {
		Content: `// TypeScript File
console.log('Hello, SourcePad!');

interface User {
    name: string;
    age: number;
}

function greet(user: User): string {
    return ` + bt + `Hello, ${user.name}! You are ${user.age} years old.` + bt + `;
}

const user: User = {
    name: 'Developer',
    age: 25
};

console.log(greet(user));

// Your TypeScript code here...`,
		Language:      "typescript",
		FileExtension: "ts",
	},
	HTML: {
		Content: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Document</title>
</head>
<body>
    <h1>Hello, World!</h1>
    <!-- Your HTML here -->
</body>
</html>`,
		Language:      "html",
		FileExtension: "html",
	},
	CSS: {
		Content: `/* CSS Stylesheet */
body {
    font-family: Arial, sans-serif;
    margin: 0;
    padding: 20px;
    background-color: #f5f5f5;
}

h1 {
    color: #333;
    text-align: center;
}

/* Your styles here */`,
		Language:      "css",
		FileExtension: "css",
	},
	Python: {
		Content: `# Python File
def main() -> None:
    print("Hello, SourcePad!")

def greet(name: str) -> str:
    return f"Hello, {name}!"

if __name__ == "__main__":
    main()

# Your Python code here...`,
		Language:      "python",
		FileExtension: "py",
	},
	JSON: {
		Content: `{
    "name": "my-project",
    "version": "1.0.0",
    "description": "A new project created in SourcePad",
    "main": "index.js",
    "scripts": {
        "start": "node index.js",
        "dev": "vite",
        "build": "tsc && vite build"
    },
    "keywords": [],
    "author": "",
    "license": "MIT"
}`,
		Language:      "json",
		FileExtension: "json",
	},
	Markdown: {
		Content: `# Project Title

A brief description of what this project does and who it's for.

## Features

- Feature 1
- Feature 2
- Feature 3

## Getting Started

### Prerequisites

- Node.js
- npm

### Installation

` + bt + bt + bt + `bash
npm install
` + bt + bt + bt + `

## Usage

` + bt + bt + bt + `typescript
// Example TypeScript code
interface Config {
    name: string;
    version: string;
}

const config: Config = {
    name: 'my-app',
    version: '1.0.0'
};

console.log(` + bt + `App: ${config.name} v${config.version}` + bt + `);
` + bt + bt + bt + `

## Contributing

Pull requests are welcome!

## License

This project is licensed under the MIT License.`,
		Language:      "markdown",
		FileExtension: "md",
	},
}

// Get returns the template for kind.
func Get(kind string) (models.Template, bool) {
	t, ok := catalog[kind]
	if !ok {
		return models.Template{}, false
	}
	t.Kind = kind
	return t, true
}

// All returns every template in start-page order.
func All() []models.Template {
	all := make([]models.Template, 0, len(Kinds))
	for _, kind := range Kinds {
		t, _ := Get(kind)
		all = append(all, t)
	}
	return all
}
