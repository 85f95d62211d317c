// Package main hosts the bookbinder CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, wires the conversion
// services through a small dependency container, and renders results as
// colored status lines, tables, or JSON.
//
// Keep this package thin: conversion behavior lives in the internal packages
// and is only surfaced here.
package main
