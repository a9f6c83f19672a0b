// Package chart draws report sections as PNG or SVG images with go-chart.
//
// Bar and line sections use go-chart's chart types. Pie, radar, violin and
// word-frequency sections are drawn directly on a go-chart Renderer. Every
// call to Render builds its own renderer and chart value, so a Renderer can
// be shared by goroutines.
package chart
