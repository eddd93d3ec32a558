//go:build tools

package main

// Dependencias de herramientas usadas en la generación de docs.
import (
	_ "github.com/swaggo/swag"
)
