package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"bootnet.xyz/snet/internal/config"
)

var (
	addrStorePath string
	addrIndex     int
	addrIP        string
	addrNetmask   string
	addrGateway   string
)

var addrCmd = &cobra.Command{
	Use:   "addr",
	Short: "Inspect or update the interface's persistent IPv4 addressing",
}

var addrShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored addressing for the interface index",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := config.OpenAddressStore(addrStorePath)
		if err != nil {
			exitWithError("opening address store", err)
		}
		addr, err := store.Get(addrIndex)
		if err != nil {
			exitWithError("reading addressing", err)
		}
		fmt.Printf("index:   %d\n", addrIndex)
		fmt.Printf("address: %s\n", ipOrUnset(addr.IP))
		fmt.Printf("netmask: %s\n", ipOrUnset(addr.Netmask))
		fmt.Printf("gateway: %s\n", ipOrUnset(addr.Gateway))
	},
}

var addrSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store addressing for the interface index",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := config.OpenAddressStore(addrStorePath)
		if err != nil {
			exitWithError("opening address store", err)
		}
		addr := config.InterfaceAddr{
			IP:      parseFlagIP(addrIP, "ip"),
			Netmask: parseFlagIP(addrNetmask, "netmask"),
			Gateway: parseFlagIP(addrGateway, "gateway"),
		}
		if err := store.Set(addrIndex, addr); err != nil {
			exitWithError("storing addressing", err)
		}
	},
}

func parseFlagIP(s, name string) net.IP {
	if s == "" {
		return nil
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		exitWithError(fmt.Sprintf("invalid IPv4 address for --%s: %s", name, s), nil)
	}
	return ip.To4()
}

func ipOrUnset(ip net.IP) string {
	if ip == nil {
		return "(unset)"
	}
	return ip.String()
}

func init() {
	addrCmd.PersistentFlags().StringVar(&addrStorePath, "store", "/etc/snet/addresses.yml",
		"address store file path")
	addrCmd.PersistentFlags().IntVar(&addrIndex, "index", 0, "interface index (0-99)")

	addrSetCmd.Flags().StringVar(&addrIP, "ip", "", "IPv4 address")
	addrSetCmd.Flags().StringVar(&addrNetmask, "netmask", "", "IPv4 network mask")
	addrSetCmd.Flags().StringVar(&addrGateway, "gateway", "", "IPv4 gateway")

	addrCmd.AddCommand(addrShowCmd)
	addrCmd.AddCommand(addrSetCmd)
}
