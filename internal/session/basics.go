package session

import "github.com/quocvuong92/ai-terminal/internal/display"

// basicsWidth is the padding of the command column
const basicsWidth = 20

// BasicCommands is the beginner reference table
var BasicCommands = []display.Row{
	{Key: "ls", Description: "List files and folders in current directory"},
	{Key: "cd [folder]", Description: "Change to a different folder"},
	{Key: "pwd", Description: "Show current folder path"},
	{Key: "mkdir [name]", Description: "Create a new folder"},
	{Key: "touch [file]", Description: "Create a new empty file"},
	{Key: "cp [from] [to]", Description: "Copy a file"},
	{Key: "mv [from] [to]", Description: "Move or rename a file"},
	{Key: "rm [file]", Description: "Delete a file (be careful!)"},
	{Key: "cat [file]", Description: "Show contents of a file"},
	{Key: "clear", Description: "Clear the terminal screen"},
}
