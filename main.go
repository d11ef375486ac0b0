package main

import "todo-api.com/todo-api/cmd"

func main() {
	cmd.Execute()
}
