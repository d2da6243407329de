package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mandel59/mahjong/calc/app"
	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/calc/application/service"
	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/common/jwts"
	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/common/metrics"
	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 启动 HTTP 与 NATS 服务

var (
	configFile string
	evalReq    dto.EvaluateRequest
	tokenUser  string
)

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "calc 立直麻将判定服务",
	Long:  `calc 立直麻将判定服务: 和了判定, 听牌, 役与点数计算`,
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig(configFile)
		log.InitLog(config.Conf.AppName, config.Conf.Log.Level)
		log.Info("配置文件: %+v", *config.Conf)

		if config.Conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", config.Conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", config.Conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		if err := app.Run(context.Background()); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

// evalCmd 离线判定, 结果以 JSON 打印到标准输出
var evalCmd = &cobra.Command{
	Use:   "eval <hand>",
	Short: "判定一手牌",
	Example: `  calc eval 234m567p678s23s55p4s --seat 1 --tsumo
  calc eval "123m456p[<789s]11z222z" --dora-indicator 1z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evalReq.Hand = args[0]
		resp, err := service.NewEvaluateService().Evaluate(cmd.Context(), "", &evalReq)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

// tokenCmd 签发调试用 token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发 JWT",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(configFile)
		if err != nil {
			return err
		}
		token, err := jwts.GetToken(jwts.NewClaims(tokenUser, conf.JwtConf.Expire), conf.JwtConf.Secret)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "resource file")

	f := evalCmd.Flags()
	f.IntVar(&evalReq.RoundWind, "round", 0, "场风 0-3 (东南西北)")
	f.IntVar(&evalReq.SeatWind, "seat", 0, "自风 0-3 (东南西北)")
	f.BoolVar(&evalReq.Riichi, "riichi", false, "立直")
	f.BoolVar(&evalReq.Tsumo, "tsumo", false, "自摸")
	f.StringSliceVar(&evalReq.Dora, "dora", nil, "宝牌")
	f.StringSliceVar(&evalReq.DoraIndicators, "dora-indicator", nil, "宝牌指示牌")
	f.StringSliceVar(&evalReq.UraDora, "ura", nil, "里宝牌")
	f.StringSliceVar(&evalReq.UraIndicators, "ura-indicator", nil, "里宝牌指示牌")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "userID")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(evalCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
