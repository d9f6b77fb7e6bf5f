/*
 * @author: sun977
 * @date: 2026.03.12
 * @description: NeoRecon CLI 入口
 */

package main

func main() {
	Execute()
}
