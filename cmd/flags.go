package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
