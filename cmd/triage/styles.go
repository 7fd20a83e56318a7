package main

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)
