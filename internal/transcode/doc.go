// Package transcode holds the GIF recipe: conversion parameters, form parsing
// with default substitution, the palette filter expression, the engine
// argument list and the download filename.
package transcode
